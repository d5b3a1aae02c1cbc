package customer

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
)

// View — отображаемое представление клиента.
type View struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"customer_type,omitempty"`
}

// Service — тонкий справочник клиентов: чтение и обслуживание профилей.
// Ядро заказов пользуется только чтением.
type Service struct {
	customers domain.CustomerRepository
	logger    *log.Entry
}

// NewService конструирует справочник клиентов.
func NewService(customers domain.CustomerRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customer-service")
	}
	return &Service{customers: customers, logger: logger}
}

// List возвращает всех клиентов справочника.
func (s *Service) List(_ context.Context) ([]View, error) {
	customers, err := s.customers.List()
	if err != nil {
		s.logger.WithError(err).Error("failed to list customers")
		return nil, err
	}

	result := make([]View, 0, len(customers))
	for _, customer := range customers {
		result = append(result, project(customer))
	}
	return result, nil
}

// Get возвращает клиента по идентификатору.
func (s *Service) Get(_ context.Context, id string) (View, error) {
	customer, err := s.customers.Get(id)
	if err != nil {
		return View{}, err
	}
	return project(customer), nil
}

// UpdateProfile обновляет только разрешённые поля профиля: имя и email.
func (s *Service) UpdateProfile(_ context.Context, id, name, email string) (View, error) {
	customer, err := s.customers.Get(id)
	if err != nil {
		return View{}, err
	}

	customer.Name = name
	customer.Email = email
	if errs := customer.Validate(); len(errs) > 0 {
		return View{}, errs[0]
	}

	updated, err := s.customers.Save(customer)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", id).Error("failed to update customer profile")
		return View{}, err
	}
	return project(updated), nil
}

// ChangeType меняет классификацию клиента. Неразборчивое значение
// отклоняется как некорректный ввод.
func (s *Service) ChangeType(_ context.Context, id, rawType string) (View, error) {
	newType, err := domain.ParseCustomerType(rawType)
	if err != nil {
		return View{}, err
	}

	customer, err := s.customers.Get(id)
	if err != nil {
		return View{}, err
	}

	customer.Type = newType
	updated, err := s.customers.Save(customer)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", id).Error("failed to change customer type")
		return View{}, err
	}
	return project(updated), nil
}

// Delete удаляет клиента из справочника.
func (s *Service) Delete(_ context.Context, id string) error {
	if err := s.customers.Delete(id); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WithError(err).WithField("customer_id", id).Error("failed to delete customer")
		}
		return err
	}
	return nil
}

func project(customer domain.Customer) View {
	return View{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
		Type:  string(customer.Type),
	}
}
