package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

// customerRepositoryInMemory — in-memory справочник клиентов.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerRepository создаёт пустой справочник клиентов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{items: make(map[string]domain.Customer)}
}

// NewCustomerRepositorySeeded создаёт справочник с предзаполненными клиентами.
func NewCustomerRepositorySeeded(customers ...domain.Customer) domain.CustomerRepository {
	repo := &customerRepositoryInMemory{items: make(map[string]domain.Customer, len(customers))}
	for _, customer := range customers {
		if customer.ID == "" {
			customer.ID = uuid.NewString()
		}
		repo.items[customer.ID] = customer
	}
	return repo
}

// List возвращает всех клиентов в стабильном порядке по ID.
func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Get возвращает клиента или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// Save создаёт или перезаписывает запись клиента.
func (r *customerRepositoryInMemory) Save(customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	r.items[customer.ID] = customer
	return customer, nil
}

// Delete удаляет клиента или возвращает ErrCustomerNotFound.
func (r *customerRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
