package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/messaging/kafka"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/metrics"
)

const outboxAggregateOrder = "order"

// CustomerHint — необязательная подсказка для отображения при создании заказа.
// Информационное поле: в заказ попадает снимок из справочника, а не подсказка.
type CustomerHint struct {
	Name  string
	Email string
}

// Service реализует агрегат заказа: создание, добавление позиций,
// пересчёт суммы и переходы статуса.
type Service struct {
	orders    domain.OrderRepository
	customers domain.CustomerRepository
	variants  domain.VariantRepository
	outbox    domain.OutboxRepository
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewService конструирует сервис заказов. outbox и metrics могут быть nil:
// публикация событий и метрики тогда отключены.
func NewService(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	variants domain.VariantRepository,
	outbox domain.OutboxRepository,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		orders:    orders,
		customers: customers,
		variants:  variants,
		outbox:    outbox,
		metrics:   m,
		logger:    logger,
	}
}

// Create создаёт пустой заказ-черновик для клиента.
// Клиент обязан существовать в справочнике, иначе заказ не создаётся.
func (s *Service) Create(_ context.Context, customerID string, hint CustomerHint) (View, error) {
	started := time.Now()
	defer s.observe("create", started)

	if customerID == "" {
		return View{}, domain.ErrCustomerRequired
	}

	customer, err := s.customers.Get(customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Warn("failed to resolve customer")
		return View{}, err
	}

	if hint.Name != "" || hint.Email != "" {
		// Подсказка используется только для диагностики, источником истины
		// остаётся справочник клиентов.
		s.logger.WithFields(log.Fields{
			"customer_id": customerID,
			"hint_name":   hint.Name,
			"hint_email":  hint.Email,
		}).Debug("create order customer hint")
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Customer:   &customer,
		Status:     domain.OrderStatusDraft,
		Total:      0,
		Items:      []domain.LineItem{},
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return View{}, errs[0]
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to create order")
		return View{}, err
	}

	s.recordCreated()
	s.enqueueEvent(kafka.EventTypeOrderCreated, order)

	// Возвращаем свежезагруженный агрегат, а не локальную копию.
	stored, err := s.loadOrder(order.ID, "Create")
	if err != nil {
		return View{}, err
	}
	return Project(stored), nil
}

// AddItem добавляет позицию к заказу и пересчитывает сумму по всей коллекции.
// Цена за единицу снимается с текущей каталожной цены варианта и больше
// не меняется. Остаток не проверяется и не списывается; статус заказа
// при добавлении не ограничивается.
func (s *Service) AddItem(_ context.Context, orderID, variantID string, qty int32) (View, error) {
	started := time.Now()
	defer s.observe("add_item", started)

	if qty <= 0 {
		return View{}, domain.ErrQuantityInvalid
	}

	order, err := s.loadOrder(orderID, "AddItem")
	if err != nil {
		return View{}, err
	}

	variant, err := s.variants.Get(variantID)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   orderID,
			"variant_id": variantID,
		}).Warn("failed to resolve variant")
		return View{}, err
	}

	now := time.Now().UTC()
	item := domain.LineItem{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Variant:   variant.Snapshot(),
		Qty:       qty,
		UnitPrice: variant.Price,
		CreatedAt: now,
	}

	order.Items = append(order.Items, item)
	// Полный пересчёт по всем позициям, не инкремент.
	order.RecalculateTotal()
	order.UpdatedAt = now

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return View{}, errs[0]
	}

	if err := s.saveOrder(order, "AddItem"); err != nil {
		return View{}, err
	}

	s.recordItemAdded()
	s.enqueueEvent(kafka.EventTypeOrderItemAdded, order)

	stored, err := s.loadOrder(order.ID, "AddItemReload")
	if err != nil {
		return View{}, err
	}
	return Project(stored), nil
}

// ListByCustomer возвращает все заказы клиента, свежие первыми.
func (s *Service) ListByCustomer(_ context.Context, customerID string) ([]View, error) {
	started := time.Now()
	defer s.observe("list", started)

	if customerID == "" {
		return nil, domain.ErrCustomerRequired
	}

	orders, err := s.orders.ListByCustomer(customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("failed to list orders")
		return nil, err
	}

	result := make([]View, 0, len(orders))
	for _, order := range orders {
		result = append(result, Project(order))
	}
	return result, nil
}

// Confirm переводит заказ в статус confirmed.
// Переход безусловный: исходный статус не проверяется.
func (s *Service) Confirm(ctx context.Context, orderID string) (View, error) {
	started := time.Now()
	defer s.observe("confirm", started)

	view, err := s.transition(ctx, orderID, domain.OrderStatusConfirmed, "Confirm")
	if err != nil {
		return View{}, err
	}
	s.recordConfirmed()
	return view, nil
}

// Cancel переводит заказ в статус cancelled.
// Переход безусловный, обратного пути в draft нет.
func (s *Service) Cancel(ctx context.Context, orderID string) (View, error) {
	started := time.Now()
	defer s.observe("cancel", started)

	view, err := s.transition(ctx, orderID, domain.OrderStatusCancelled, "Cancel")
	if err != nil {
		return View{}, err
	}
	s.recordCancelled()
	return view, nil
}

func (s *Service) transition(_ context.Context, orderID string, status domain.OrderStatus, operation string) (View, error) {
	order, err := s.loadOrder(orderID, operation)
	if err != nil {
		return View{}, err
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(order, operation); err != nil {
		return View{}, err
	}

	switch status {
	case domain.OrderStatusConfirmed:
		s.enqueueEvent(kafka.EventTypeOrderConfirmed, order)
	case domain.OrderStatusCancelled:
		s.enqueueEvent(kafka.EventTypeOrderCancelled, order)
	}

	stored, err := s.loadOrder(order.ID, operation+"Reload")
	if err != nil {
		return View{}, err
	}
	return Project(stored), nil
}

func (s *Service) loadOrder(orderID, operation string) (domain.Order, error) {
	order, err := s.orders.Get(orderID)
	if err == nil {
		return order, nil
	}

	s.logger.WithError(err).WithFields(log.Fields{
		"operation": operation,
		"order_id":  orderID,
	}).Warn("failed to load order")

	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return domain.Order{}, err
}

func (s *Service) saveOrder(order domain.Order, operation string) error {
	if err := s.orders.Save(order); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"order_id":  order.ID,
		}).Error("failed to save order")
		return err
	}
	return nil
}

// enqueueEvent ставит событие заказа в outbox. Ошибка постановки логируется
// и не влияет на результат операции.
func (s *Service) enqueueEvent(eventType kafka.EventType, order domain.Order) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewOrderEvent(eventType, order.ID, order.CustomerID, string(order.Status), order.Total,
		map[string]interface{}{"items": len(order.Items)})
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to encode order event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: outboxAggregateOrder,
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": eventType,
		}).Warn("failed to enqueue order event")
	}
}

func (s *Service) observe(operation string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, time.Since(started))
	}
}

func (s *Service) recordCreated() {
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
}

func (s *Service) recordItemAdded() {
	if s.metrics != nil {
		s.metrics.RecordItemAdded()
	}
}

func (s *Service) recordConfirmed() {
	if s.metrics != nil {
		s.metrics.RecordOrderConfirmed()
	}
}

func (s *Service) recordCancelled() {
	if s.metrics != nil {
		s.metrics.RecordOrderCancelled()
	}
}
