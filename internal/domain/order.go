package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в магазине B2B.
type OrderStatus string

const (
	// OrderStatusDraft — заказ создан и наполняется позициями.
	OrderStatusDraft OrderStatus = "draft"
	// OrderStatusConfirmed — заказ подтверждён клиентом.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// VariantSnapshot хранит снимок атрибутов варианта на момент добавления позиции.
// Каталожная цена может меняться позже, снимок — нет.
type VariantSnapshot struct {
	VariantID string
	SKU       string
	Color     string
	Size      string
	// Price — каталожная цена варианта на момент чтения.
	Price float64
	// Stock — остаток на момент чтения; справочное поле, заказ его не уменьшает.
	Stock int32
	// ProductID и ProductName — родительский товар, разрешается жадно при чтении варианта.
	ProductID   string
	ProductName string
}

// LineItem представляет одну позицию заказа.
// Позиция принадлежит ровно одному заказу и не переназначается.
type LineItem struct {
	ID      string
	OrderID string
	// Variant — снимок варианта для отображения; nil, если вариант не разрешился.
	Variant *VariantSnapshot
	// Qty — количество единиц, всегда положительное.
	Qty int32
	// UnitPrice — цена за единицу, снятая с варианта при добавлении позиции.
	// Никогда не пересчитывается, даже если каталожная цена изменилась.
	UnitPrice float64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID         string
	CustomerID string
	// Customer — снимок клиента для отображения, разрешается при создании заказа
	// и дальше может устаревать.
	Customer *Customer
	Status   OrderStatus
	// Total — производная величина: сумма qty*unit_price по всем позициям.
	// Никогда не выставляется независимо, только через RecalculateTotal.
	Total     float64
	Items     []LineItem
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalOf считает сумму заказа по коллекции позиций.
// Суммирование строго слева направо в порядке позиций, чтобы результат
// был воспроизводимым при плавающей точке.
func TotalOf(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Qty) * item.UnitPrice
	}
	return total
}

// RecalculateTotal пересчитывает Total по всей текущей коллекции позиций.
// Пересчёт всегда полный, не инкрементальный.
func (o *Order) RecalculateTotal() {
	o.Total = TotalOf(o.Items)
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.Total < 0 {
		errs = append(errs, ErrTotalNegative)
	}
	switch o.Status {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusCancelled:
	default:
		errs = append(errs, ErrOrderStatusInvalid)
	}

	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrQuantityInvalid)
		}
		if item.UnitPrice < 0 {
			errs = append(errs, ErrUnitPriceInvalid)
		}
	}

	// Сверяем сумму заказа с суммой позиций: тот же порядок суммирования,
	// что и в TotalOf, поэтому сравнение точное.
	if TotalOf(o.Items) != o.Total {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
