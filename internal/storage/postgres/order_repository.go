package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, status, total, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.CustomerID, string(order.Status), order.Total,
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if err = insertItemTx(ctx, tx, order.ID, item); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.status, o.total, o.version, o.created_at, o.updated_at,
		       c.id, c.name, c.email, c.customer_type
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) ListByCustomer(customerID string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_id, o.status, o.total, o.version, o.created_at, o.updated_at,
		       c.id, c.name, c.email, c.customer_type
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC, o.id DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// Save обновляет строку заказа с optimistic-проверкой версии и дописывает
// новые позиции. Позиции неизменяемы, поэтому уже сохранённые строки
// пропускаются по конфликту первичного ключа.
func (r *orderRepository) Save(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    total = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $4
		  AND version = $5
	`,
		string(order.Status),
		order.Total,
		order.UpdatedAt,
		order.ID,
		order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		// err здесь внешний: по нему deferred rollback закрывает транзакцию.
		exists, err = r.orderExistsTx(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			err = domain.ErrOrderNotFound
			return err
		}
		err = domain.ErrOrderVersionConflict
		return err
	}

	for _, item := range order.Items {
		if err = insertItemTx(ctx, tx, order.ID, item); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save order: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *orderRepository) scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order         domain.Order
		status        string
		customerID    sql.NullString
		customerName  sql.NullString
		customerEmail sql.NullString
		customerType  sql.NullString
	)

	if err := row.Scan(
		&order.ID, &order.CustomerID, &status, &order.Total,
		&order.Version, &order.CreatedAt, &order.UpdatedAt,
		&customerID, &customerName, &customerEmail, &customerType,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)

	if customerID.Valid {
		order.Customer = &domain.Customer{
			ID:    customerID.String,
			Name:  customerName.String,
			Email: customerEmail.String,
			Type:  domain.CustomerType(customerType.String),
		}
	}

	return order, nil
}

func insertItemTx(ctx context.Context, tx *sql.Tx, orderID string, item domain.LineItem) error {
	var (
		variantID    sql.NullString
		variantSKU   sql.NullString
		variantColor sql.NullString
		variantSize  sql.NullString
		variantPrice sql.NullFloat64
		variantStock sql.NullInt32
		productID    sql.NullString
		productName  sql.NullString
	)
	if v := item.Variant; v != nil {
		variantID = sql.NullString{String: v.VariantID, Valid: true}
		variantSKU = sql.NullString{String: v.SKU, Valid: true}
		variantColor = sql.NullString{String: v.Color, Valid: true}
		variantSize = sql.NullString{String: v.Size, Valid: true}
		variantPrice = sql.NullFloat64{Float64: v.Price, Valid: true}
		variantStock = sql.NullInt32{Int32: v.Stock, Valid: true}
		if v.ProductID != "" {
			productID = sql.NullString{String: v.ProductID, Valid: true}
		}
		if v.ProductName != "" {
			productName = sql.NullString{String: v.ProductName, Valid: true}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_items (
			id, order_id, variant_id, variant_sku, variant_color, variant_size,
			variant_price, variant_stock, product_id, product_name,
			quantity, unit_price, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO NOTHING
	`,
		item.ID, orderID, variantID, variantSKU, variantColor, variantSize,
		variantPrice, variantStock, productID, productName,
		item.Qty, item.UnitPrice, item.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}

	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, variant_id, variant_sku, variant_color, variant_size,
		       variant_price, variant_stock, product_id, product_name,
		       quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var (
			item         domain.LineItem
			variantID    sql.NullString
			variantSKU   sql.NullString
			variantColor sql.NullString
			variantSize  sql.NullString
			variantPrice sql.NullFloat64
			variantStock sql.NullInt32
			productID    sql.NullString
			productName  sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &variantID, &variantSKU, &variantColor, &variantSize,
			&variantPrice, &variantStock, &productID, &productName,
			&item.Qty, &item.UnitPrice, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.OrderID = orderID

		if variantID.Valid {
			item.Variant = &domain.VariantSnapshot{
				VariantID:   variantID.String,
				SKU:         variantSKU.String,
				Color:       variantColor.String,
				Size:        variantSize.String,
				Price:       variantPrice.Float64,
				Stock:       variantStock.Int32,
				ProductID:   productID.String,
				ProductName: productName.String,
			}
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) orderExistsTx(ctx context.Context, tx *sql.Tx, orderID string) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
