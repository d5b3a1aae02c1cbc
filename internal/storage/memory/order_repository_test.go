package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/storage/memory"
)

func newOrder(id string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:         id,
		CustomerID: "customer-1",
		Status:     domain.OrderStatusDraft,
		Total:      50,
		Items: []domain.LineItem{
			{
				ID:        id + "-item-1",
				OrderID:   id,
				Variant:   &domain.VariantSnapshot{VariantID: "variant-1", SKU: "sku-1", Price: 10},
				Qty:       5,
				UnitPrice: 10,
				CreatedAt: createdAt,
			},
		},
		Version:   0,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != order.ID {
		t.Fatalf("expected id %s, got %s", order.ID, stored.ID)
	}
	if len(stored.Items) != 1 || stored.Items[0].Variant == nil {
		t.Fatalf("expected one item with variant snapshot, got %+v", stored.Items)
	}
}

func TestOrderRepository_GetNotFound(t *testing.T) {
	repo := memory.NewOrderRepository()
	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByCustomer_DateDesc(t *testing.T) {
	repo := memory.NewOrderRepository()
	base := time.Now().UTC()

	for i, id := range []string{"order-a", "order-b", "order-c"} {
		order := newOrder(id, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(order); err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}
	}

	orders, err := repo.ListByCustomer("customer-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	// Самый свежий заказ первым.
	if orders[0].ID != "order-c" || orders[2].ID != "order-a" {
		t.Fatalf("expected date-desc order, got %s..%s", orders[0].ID, orders[2].ID)
	}

	again, err := repo.ListByCustomer("customer-1")
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	for i := range orders {
		if orders[i].ID != again[i].ID {
			t.Fatalf("listing is not stable at index %d", i)
		}
	}
}

func TestOrderRepository_Save(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	stored.Items = append(stored.Items, domain.LineItem{
		ID: "order-1-item-2", OrderID: stored.ID, Qty: 2, UnitPrice: 5.5,
	})
	stored.RecalculateTotal()
	if err := repo.Save(stored); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Total != 61.0 {
		t.Fatalf("expected total 61.0, got %v", updated.Total)
	}
	if updated.Version != stored.Version+1 {
		t.Fatalf("expected version increment, got %d", updated.Version)
	}
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order.Version = 42
	if err := repo.Save(order); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected version conflict error, got %v", err)
	}
}

func TestOrderRepository_StoredCopyIsIsolated(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Мутация исходного снимка не должна протекать в хранилище.
	order.Items[0].Variant.Price = 999

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Items[0].Variant.Price != 10 {
		t.Fatalf("stored snapshot mutated: %v", stored.Items[0].Variant.Price)
	}
}
