package order

import (
	"time"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

// View — отображаемое представление заказа для внешнего API.
type View struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	CreatedAt  string        `json:"created_at"`
	Total      float64       `json:"total"`
	Status     string        `json:"status"`
	Customer   *CustomerView `json:"customer,omitempty"`
	Items      []ItemView    `json:"items"`
}

// CustomerView — блок клиента в ответе.
type CustomerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"customer_type,omitempty"`
}

// ItemView — блок позиции заказа в ответе.
type ItemView struct {
	ID        string       `json:"id"`
	Qty       int32        `json:"quantity"`
	UnitPrice float64      `json:"unit_price"`
	Variant   *VariantView `json:"variant,omitempty"`
}

// VariantView — блок варианта с вложенным товаром.
type VariantView struct {
	ID      string       `json:"id"`
	SKU     string       `json:"sku"`
	Color   string       `json:"color,omitempty"`
	Size    string       `json:"size,omitempty"`
	Price   float64      `json:"price"`
	Stock   int32        `json:"available_stock"`
	Product *ProductView `json:"product,omitempty"`
}

// ProductView — блок родительского товара.
type ProductView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project детерминированно отображает агрегат заказа в представление.
// Неразрешённая вложенная ссылка (клиент или вариант) даёт nil-блок,
// проекция целиком из-за этого не падает.
func Project(order domain.Order) View {
	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, projectItem(item))
	}

	return View{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339Nano),
		Total:      order.Total,
		Status:     string(order.Status),
		Customer:   projectCustomer(order.Customer),
		Items:      items,
	}
}

// ProjectCustomer отображает запись справочника клиентов.
func ProjectCustomer(customer domain.Customer) CustomerView {
	return CustomerView{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
		Type:  string(customer.Type),
	}
}

func projectCustomer(customer *domain.Customer) *CustomerView {
	if customer == nil {
		return nil
	}
	view := ProjectCustomer(*customer)
	return &view
}

func projectItem(item domain.LineItem) ItemView {
	view := ItemView{
		ID:        item.ID,
		Qty:       item.Qty,
		UnitPrice: item.UnitPrice,
	}

	if item.Variant != nil {
		variant := &VariantView{
			ID:    item.Variant.VariantID,
			SKU:   item.Variant.SKU,
			Color: item.Variant.Color,
			Size:  item.Variant.Size,
			Price: item.Variant.Price,
			Stock: item.Variant.Stock,
		}
		if item.Variant.ProductID != "" || item.Variant.ProductName != "" {
			variant.Product = &ProductView{
				ID:   item.Variant.ProductID,
				Name: item.Variant.ProductName,
			}
		}
		view.Variant = variant
	}

	return view
}
