package postgres

import (
	"errors"
	"testing"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

func TestCustomerRepository_PostgresSaveGetListDelete(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	saved, err := repo.Save(domain.Customer{
		Name:  "ACME SRL",
		Email: "compras@acme.test",
		Type:  domain.CustomerTypeWholesale,
	})
	if err != nil {
		t.Fatalf("save customer: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated customer id")
	}

	got, err := repo.Get(saved.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.Name != "ACME SRL" || got.Type != domain.CustomerTypeWholesale {
		t.Fatalf("unexpected customer: %+v", got)
	}

	// Upsert по тому же ID обновляет профиль.
	saved.Name = "ACME Holding"
	if _, err := repo.Save(saved); err != nil {
		t.Fatalf("update customer: %v", err)
	}
	got, err = repo.Get(saved.ID)
	if err != nil {
		t.Fatalf("get updated customer: %v", err)
	}
	if got.Name != "ACME Holding" {
		t.Fatalf("expected updated name, got %s", got.Name)
	}

	customers, err := repo.List()
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}

	if err := repo.Delete(saved.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if _, err := repo.Get(saved.ID); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Delete(saved.ID); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestVariantRepository_PostgresGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewVariantRepository(store)

	seedVariantForIntegrationTest(t, store, domain.Variant{
		ID:          "var-10",
		ProductID:   "prod-10",
		ProductName: "Campera",
		SKU:         "CAM-010",
		Color:       "verde",
		Size:        "L",
		Price:       99.9,
		Stock:       4,
	})

	variant, err := repo.Get("var-10")
	if err != nil {
		t.Fatalf("get variant: %v", err)
	}
	if variant.ProductName != "Campera" || variant.Price != 99.9 {
		t.Fatalf("unexpected variant: %+v", variant)
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrVariantNotFound) {
		t.Fatalf("expected variant not found, got %v", err)
	}
}
