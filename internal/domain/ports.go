package domain

import "time"

// OutboxMessage — событие, записанное в outbox в одной транзакции
// с изменением заказа и ожидающее публикации.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats — снимок backlog'а outbox для метрик.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository хранит события до их публикации в брокер.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxPublisher доставляет сообщение во внешний брокер.
// Публикация может повторяться, поэтому реализация должна
// переживать дубликаты.
type OutboxPublisher interface {
	Publish(msg OutboxMessage) error
}

// PublishFailure описывает причину, по которой сообщение
// отправляется в dead letter queue.
type PublishFailure struct {
	Cause    string
	Attempts int
	FailedAt time.Time
}

// DeadLetterPublisher доставляет исчерпавшее retry сообщение в DLQ
// вместе с метаданными сбоя.
type DeadLetterPublisher interface {
	PublishDead(msg OutboxMessage, failure PublishFailure) error
}
