package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// CustomerService интерфейс сервиса для работы с клиентами
type CustomerService interface {
	GetAll(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	Create(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error)
	Update(ctx context.Context, id string, req domain.CustomerRequest) (domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

// CustomerRepository интерфейс репозитория для работы с клиентами
type CustomerRepository interface {
	GetAll(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	customerRepo     CustomerRepository
	subscriptionRepo SubscriptionRepository
	log              *logger.Logger
}

// NewCustomerService создает новый сервис для работы с клиентами
func NewCustomerService(customerRepo CustomerRepository, subscriptionRepo SubscriptionRepository, log *logger.Logger) CustomerService {
	return &customerService{
		customerRepo:     customerRepo,
		subscriptionRepo: subscriptionRepo,
		log:              log,
	}
}

// GetAll возвращает всех клиентов
func (s *customerService) GetAll(ctx context.Context) ([]domain.Customer, error) {
	s.log.Debug("Getting all customers")

	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get customers: %v", err)
		return nil, err
	}

	return customers, nil
}

// GetByID возвращает клиента по ID
func (s *customerService) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	s.log.Debug("Getting customer by ID: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Customer{}, repository.ErrInvalidData
	}

	customer, err := s.customerRepo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Customer not found: %s", id)
		} else {
			s.log.Error("Error fetching customer: %v", err)
		}
		return domain.Customer{}, err
	}

	return customer, nil
}

// Create создает нового клиента
func (s *customerService) Create(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error) {
	s.log.Debug("Creating customer: %s", req.Email)

	customer := domain.Customer{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: time.Now(),
	}

	createdCustomer, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		s.log.Error("Failed to create customer: %v", err)
		return domain.Customer{}, err
	}

	s.log.Info("Created customer with ID: %s", createdCustomer.ID)
	return createdCustomer, nil
}

// Update обновляет существующего клиента
func (s *customerService) Update(ctx context.Context, id string, req domain.CustomerRequest) (domain.Customer, error) {
	s.log.Debug("Updating customer: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Customer{}, repository.ErrInvalidData
	}

	customer, err := s.customerRepo.GetByID(ctx, uuidID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.log.Error("Failed to update customer: %v", err)
		return domain.Customer{}, err
	}

	return customer, nil
}

// Delete удаляет клиента. Клиента с подписками удалить нельзя.
func (s *customerService) Delete(ctx context.Context, id string) error {
	s.log.Debug("Deleting customer: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return repository.ErrInvalidData
	}

	subscriptions, err := s.subscriptionRepo.GetByCustomerID(ctx, uuidID)
	if err != nil {
		s.log.Error("Failed to check customer subscriptions: %v", err)
		return err
	}

	if len(subscriptions) > 0 {
		s.log.Warn("Cannot delete customer %s: %d subscriptions exist", id, len(subscriptions))
		return repository.ErrInvalidOperation
	}

	if err := s.customerRepo.Delete(ctx, uuidID); err != nil {
		s.log.Error("Failed to delete customer: %v", err)
		return err
	}

	s.log.Info("Deleted customer with ID: %s", id)
	return nil
}
