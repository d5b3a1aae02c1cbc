package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

// DeadLetterTopicPublisher отправляет исчерпавшие retry сообщения в DLQ.
// Исходный payload уходит без изменений, метаданные сбоя передаются
// в record headers, чтобы reprocessing-инструменты читали их без
// разбора тела.
type DeadLetterTopicPublisher struct {
	producer    *Producer
	topic       string
	sourceTopic string
}

// NewDeadLetterPublisher создаёт DLQ-паблишер. sourceTopic — топик,
// в который сообщение не удалось доставить.
func NewDeadLetterPublisher(producer *Producer, sourceTopic string) domain.DeadLetterPublisher {
	if sourceTopic == "" {
		sourceTopic = TopicOrderEvents
	}
	return &DeadLetterTopicPublisher{
		producer:    producer,
		topic:       TopicDeadLetterQueue,
		sourceTopic: sourceTopic,
	}
}

// PublishDead публикует сообщение в DLQ-топик c headers
// x-retry-count, x-original-topic, x-error-message и x-failed-at.
func (p *DeadLetterTopicPublisher) PublishDead(msg domain.OutboxMessage, failure domain.PublishFailure) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka dlq publisher is not initialized")
	}

	key := msg.AggregateID
	if key == "" {
		key = msg.ID
	}

	failedAt := failure.FailedAt
	if failedAt.IsZero() {
		failedAt = time.Now().UTC()
	}

	headers := []sarama.RecordHeader{
		{Key: []byte(HeaderRetryCount), Value: []byte(strconv.Itoa(failure.Attempts))},
		{Key: []byte(HeaderOriginalTopic), Value: []byte(p.sourceTopic)},
		{Key: []byte(HeaderErrorMessage), Value: []byte(failure.Cause)},
		{Key: []byte(HeaderFailedAt), Value: []byte(failedAt.Format(time.RFC3339Nano))},
	}

	return p.producer.PublishEventWithHeaders(p.topic, key, outboxEnvelope{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       json.RawMessage(msg.Payload),
		PublishedAt:   failedAt,
	}, headers)
}

var _ domain.DeadLetterPublisher = (*DeadLetterTopicPublisher)(nil)
