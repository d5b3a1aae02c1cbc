package domain

// CustomerType классифицирует клиента магазина.
type CustomerType string

const (
	// CustomerTypeWholesale — оптовый клиент.
	CustomerTypeWholesale CustomerType = "MAYORISTA"
	// CustomerTypeRetail — розничный клиент.
	CustomerTypeRetail CustomerType = "MINORISTA"
	// CustomerTypeAdmin — административная учётная запись.
	CustomerTypeAdmin CustomerType = "ADMIN"
)

// ParseCustomerType разбирает строковое представление типа клиента.
// Неизвестное значение — ошибка валидации входных данных.
func ParseCustomerType(value string) (CustomerType, error) {
	switch CustomerType(value) {
	case CustomerTypeWholesale, CustomerTypeRetail, CustomerTypeAdmin:
		return CustomerType(value), nil
	default:
		return "", ErrCustomerTypeInvalid
	}
}

// Customer представляет запись справочника клиентов.
// Ядро заказов читает клиентов, но не изменяет их.
type Customer struct {
	ID string
	// Name — наименование или юридическое лицо клиента.
	Name  string
	Email string
	Type  CustomerType
}

// Validate проверяет обязательные поля профиля клиента.
func (c Customer) Validate() []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}
	if c.Type != "" {
		if _, err := ParseCustomerType(string(c.Type)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
