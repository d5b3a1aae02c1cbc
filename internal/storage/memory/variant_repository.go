package memory

import (
	"sync"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

// variantRepositoryInMemory — in-memory каталог вариантов товара.
// Каталог только читается ядром заказов; Put нужен сидированию и тестам,
// в том числе для сценариев смены каталожной цены.
type variantRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Variant
}

// NewVariantRepository создаёт каталог с предзаполненными вариантами.
func NewVariantRepository(variants ...domain.Variant) *variantRepositoryInMemory {
	repo := &variantRepositoryInMemory{items: make(map[string]domain.Variant, len(variants))}
	for _, variant := range variants {
		repo.items[variant.ID] = variant
	}
	return repo
}

// Get возвращает вариант с жадно разрешённым товаром или ErrVariantNotFound.
func (r *variantRepositoryInMemory) Get(id string) (domain.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	variant, ok := r.items[id]
	if !ok {
		return domain.Variant{}, domain.ErrVariantNotFound
	}
	return variant, nil
}

// Put добавляет или заменяет вариант каталога.
func (r *variantRepositoryInMemory) Put(variant domain.Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[variant.ID] = variant
}

var _ domain.VariantRepository = (*variantRepositoryInMemory)(nil)
