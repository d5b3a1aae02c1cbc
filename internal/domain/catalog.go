package domain

// Product — товар каталога. Для ядра заказов нужны только идентификатор и имя,
// остальные поля присутствуют для справочника каталога.
type Product struct {
	ID          string
	Name        string
	Description string
	CategoryID  string
}

// Variant — конкретная покупаемая конфигурация товара (SKU/цвет/размер).
// Родительский товар разрешается жадно: репозиторий обязан вернуть
// заполненные ProductID и ProductName, никаких отложенных загрузок.
type Variant struct {
	ID          string
	ProductID   string
	ProductName string
	SKU         string
	Color       string
	Size        string
	// Price — текущая каталожная цена за единицу.
	Price float64
	// Stock — доступный остаток; ядро заказов его читает, но не списывает.
	Stock int32
}

// Snapshot возвращает снимок варианта для позиции заказа.
func (v Variant) Snapshot() *VariantSnapshot {
	return &VariantSnapshot{
		VariantID:   v.ID,
		SKU:         v.SKU,
		Color:       v.Color,
		Size:        v.Size,
		Price:       v.Price,
		Stock:       v.Stock,
		ProductID:   v.ProductID,
		ProductName: v.ProductName,
	}
}
