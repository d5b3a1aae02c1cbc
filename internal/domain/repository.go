package domain

// OrderRepository описывает требования к хранилищу заказов.
// Реализация обязана сериализовать конкурентные мутации одного заказа:
// Save выполняется с проверкой версии (optimistic locking).
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByCustomer возвращает все заказы клиента, отсортированные по дате создания
	// по убыванию. Пагинации нет: выборка всегда полная.
	ListByCustomer(customerID string) ([]Order, error)
	// Save применяет обновления к заказу атомарно: строка заказа и новые позиции
	// записываются в одной транзакции, с учётом optimistic locking.
	Save(order Order) error
}

// CustomerRepository описывает справочник клиентов.
type CustomerRepository interface {
	// List возвращает всех клиентов справочника.
	List() ([]Customer, error)
	// Get возвращает клиента или ErrCustomerNotFound.
	Get(id string) (Customer, error)
	// Save создаёт или обновляет запись клиента и возвращает сохранённое состояние.
	Save(customer Customer) (Customer, error)
	// Delete удаляет клиента или возвращает ErrCustomerNotFound.
	Delete(id string) error
}

// VariantRepository описывает каталог вариантов товара.
// Варианты только читаются; родительский товар всегда разрешён в результате.
type VariantRepository interface {
	// Get возвращает вариант или ErrVariantNotFound.
	Get(id string) (Variant, error)
}
