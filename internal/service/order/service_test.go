package order_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/messaging/kafka"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/service/order"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/storage/memory"
)

type fixture struct {
	svc      *order.Service
	orders   domain.OrderRepository
	variants interface {
		domain.VariantRepository
		Put(domain.Variant)
	}
	outbox interface {
		domain.OutboxRepository
		AllPending() []domain.OutboxMessage
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepositorySeeded(domain.Customer{
		ID:    "C1",
		Name:  "ACME SRL",
		Email: "compras@acme.test",
		Type:  domain.CustomerTypeWholesale,
	})
	variants := memory.NewVariantRepository(
		domain.Variant{ID: "V1", ProductID: "P1", ProductName: "Remera", SKU: "REM-001", Color: "negro", Size: "M", Price: 10.0, Stock: 25},
		domain.Variant{ID: "V2", ProductID: "P2", ProductName: "Pantalon", SKU: "PAN-002", Color: "azul", Size: "42", Price: 5.5, Stock: 8},
	)
	outbox := memory.NewOutboxRepository()

	svc := order.NewService(orders, customers, variants, outbox, nil, logger.WithField("component", "order-service-test"))
	return &fixture{svc: svc, orders: orders, variants: variants, outbox: outbox}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "C1", order.CustomerHint{Name: "ACME", Email: "compras@acme.test"})
	require.NoError(t, err)

	require.NotEmpty(t, view.ID)
	require.Equal(t, "C1", view.CustomerID)
	require.Equal(t, string(domain.OrderStatusDraft), view.Status)
	require.Equal(t, 0.0, view.Total)
	require.Empty(t, view.Items)
	require.NotEmpty(t, view.CreatedAt)

	// Снимок клиента разрешён при создании.
	require.NotNil(t, view.Customer)
	require.Equal(t, "ACME SRL", view.Customer.Name)
	require.Equal(t, "MAYORISTA", view.Customer.Type)
}

func TestCreate_CustomerNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "missing", order.CustomerHint{})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	// Заказ не должен был создаться.
	orders, listErr := f.orders.ListByCustomer("missing")
	require.NoError(t, listErr)
	require.Empty(t, orders)
	require.Empty(t, f.outbox.AllPending())
}

func TestCreate_CustomerIDRequired(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "", order.CustomerHint{})
	require.ErrorIs(t, err, domain.ErrCustomerRequired)
}

// Сквозной сценарий: пустой черновик, две позиции, подтверждение.
func TestOrderLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
	require.NoError(t, err)
	require.Equal(t, "draft", created.Status)
	require.Equal(t, 0.0, created.Total)
	require.Empty(t, created.Items)

	afterFirst, err := f.svc.AddItem(ctx, created.ID, "V1", 3)
	require.NoError(t, err)
	require.Equal(t, 30.0, afterFirst.Total)
	require.Len(t, afterFirst.Items, 1)
	require.Equal(t, 10.0, afterFirst.Items[0].UnitPrice)
	require.NotNil(t, afterFirst.Items[0].Variant)
	require.Equal(t, "REM-001", afterFirst.Items[0].Variant.SKU)
	require.NotNil(t, afterFirst.Items[0].Variant.Product)
	require.Equal(t, "Remera", afterFirst.Items[0].Variant.Product.Name)

	afterSecond, err := f.svc.AddItem(ctx, created.ID, "V2", 2)
	require.NoError(t, err)
	require.Equal(t, 41.0, afterSecond.Total)
	require.Len(t, afterSecond.Items, 2)

	confirmed, err := f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmed", confirmed.Status)
	require.Equal(t, 41.0, confirmed.Total)
}

func TestAddItem_OrderNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddItem(context.Background(), "missing", "V1", 1)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	require.Empty(t, f.outbox.AllPending())
}

func TestAddItem_VariantNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, created.ID, "missing", 1)
	require.ErrorIs(t, err, domain.ErrVariantNotFound)

	// Ничего не записано: позиции и сумма без изменений.
	stored, err := f.orders.Get(created.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Items)
	require.Equal(t, 0.0, stored.Total)
}

func TestAddItem_QuantityValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
	require.NoError(t, err)

	for _, qty := range []int32{0, -1} {
		_, err = f.svc.AddItem(ctx, created.ID, "V1", qty)
		require.ErrorIs(t, err, domain.ErrQuantityInvalid)
	}

	stored, err := f.orders.Get(created.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Items)
}

// Цена позиции — снимок на момент добавления: последующее изменение
// каталожной цены уже добавленные позиции не трогает.
func TestAddItem_PriceSnapshotImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, created.ID, "V1", 3)
	require.NoError(t, err)

	// Каталог меняет цену варианта.
	f.variants.Put(domain.Variant{ID: "V1", ProductID: "P1", ProductName: "Remera", SKU: "REM-001", Color: "negro", Size: "M", Price: 12.0, Stock: 25})

	view, err := f.svc.AddItem(ctx, created.ID, "V1", 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	require.Equal(t, 10.0, view.Items[0].UnitPrice)
	require.Equal(t, 12.0, view.Items[1].UnitPrice)
	require.Equal(t, 42.0, view.Total)
}

func TestAddItem_NoStockCheckAndNoStatusGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
	require.NoError(t, err)

	// Количество больше остатка принимается: резервирования нет.
	view, err := f.svc.AddItem(ctx, created.ID, "V2", 100)
	require.NoError(t, err)
	require.Equal(t, 550.0, view.Total)

	_, err = f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)

	// Добавление в подтверждённый заказ не блокируется.
	view, err = f.svc.AddItem(ctx, created.ID, "V1", 1)
	require.NoError(t, err)
	require.Equal(t, "confirmed", view.Status)
	require.Equal(t, 560.0, view.Total)
}

func TestListByCustomer_DateDescAndIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		view, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
		require.NoError(t, err)
		ids = append(ids, view.ID)
		time.Sleep(2 * time.Millisecond) // разводим created_at
	}

	first, err := f.svc.ListByCustomer(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.Equal(t, ids[2], first[0].ID)
	require.Equal(t, ids[0], first[2].ID)

	second, err := f.svc.ListByCustomer(ctx, "C1")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestListByCustomer_Empty(t *testing.T) {
	f := newFixture(t)

	views, err := f.svc.ListByCustomer(context.Background(), "C1")
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestTransitions_LastWriterWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmed", confirmed.Status)

	cancelled, err := f.svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "cancelled", cancelled.Status)

	// Переходы безусловны: подтверждение отменённого заказа проходит.
	reconfirmed, err := f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "confirmed", reconfirmed.Status)
}

func TestTransitions_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Confirm(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = f.svc.Cancel(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOutboxEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "C1", order.CustomerHint{})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, created.ID, "V1", 3)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, created.ID)
	require.NoError(t, err)

	pending := f.outbox.AllPending()
	require.Len(t, pending, 4)

	types := make(map[string]int, len(pending))
	for _, msg := range pending {
		require.Equal(t, "order", msg.AggregateType)
		require.Equal(t, created.ID, msg.AggregateID)

		var event kafka.OrderEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		require.Equal(t, msg.EventType, string(event.EventType))
		require.Equal(t, created.ID, event.OrderID)
		require.Equal(t, "C1", event.CustomerID)
		require.False(t, event.Timestamp.IsZero())

		types[msg.EventType]++
	}
	require.Equal(t, 1, types[string(kafka.EventTypeOrderCreated)])
	require.Equal(t, 1, types[string(kafka.EventTypeOrderItemAdded)])
	require.Equal(t, 1, types[string(kafka.EventTypeOrderConfirmed)])
	require.Equal(t, 1, types[string(kafka.EventTypeOrderCancelled)])

	// Снимок статуса и суммы делается в момент события.
	var confirmedEvent kafka.OrderEvent
	for _, msg := range pending {
		if msg.EventType == string(kafka.EventTypeOrderConfirmed) {
			require.NoError(t, json.Unmarshal(msg.Payload, &confirmedEvent))
		}
	}
	require.Equal(t, "confirmed", confirmedEvent.Status)
	require.Equal(t, 30.0, confirmedEvent.Total)
}

// Сервис без outbox и метрик работает так же, просто без побочных эффектов.
func TestService_OptionalDependenciesNil(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepositorySeeded(domain.Customer{ID: "C1", Name: "ACME", Email: "a@b.test"})
	variants := memory.NewVariantRepository(domain.Variant{ID: "V1", SKU: "REM-001", Price: 10})

	svc := order.NewService(orders, customers, variants, nil, nil, logger.WithField("t", "nil-deps"))

	created, err := svc.Create(context.Background(), "C1", order.CustomerHint{})
	require.NoError(t, err)

	view, err := svc.AddItem(context.Background(), created.ID, "V1", 2)
	require.NoError(t, err)
	require.Equal(t, 20.0, view.Total)
}
