package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

type variantRepository struct {
	db *sql.DB
}

// NewVariantRepository создаёт PostgreSQL-реализацию VariantRepository.
// Каталог для сервиса заказов read-only.
func NewVariantRepository(store *Store) domain.VariantRepository {
	return &variantRepository{db: store.DB()}
}

func (r *variantRepository) Get(id string) (domain.Variant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var variant domain.Variant
	err := r.db.QueryRowContext(ctx, `
		SELECT v.id, v.product_id, p.name, v.sku, v.color, v.size, v.price, v.stock
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = $1
	`, id).Scan(
		&variant.ID, &variant.ProductID, &variant.ProductName,
		&variant.SKU, &variant.Color, &variant.Size, &variant.Price, &variant.Stock,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Variant{}, domain.ErrVariantNotFound
		}
		return domain.Variant{}, fmt.Errorf("select product variant: %w", err)
	}

	return variant, nil
}

var _ domain.VariantRepository = (*variantRepository)(nil)
