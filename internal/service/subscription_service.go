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

// SubscriptionService интерфейс сервиса для работы с подписками
type SubscriptionService interface {
	GetAll(ctx context.Context) ([]domain.Subscription, error)
	GetByID(ctx context.Context, id string) (domain.Subscription, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]domain.Subscription, error)
	Create(ctx context.Context, req domain.SubscriptionRequest) (domain.Subscription, error)
	Update(ctx context.Context, id string, req domain.SubscriptionRequest) (domain.Subscription, error)
	Delete(ctx context.Context, id string) error
}

// SubscriptionRepository интерфейс репозитория для работы с подписками
type SubscriptionRepository interface {
	GetAll(ctx context.Context) ([]domain.Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.Subscription, error)
	GetByPlatformID(ctx context.Context, platformID uuid.UUID) ([]domain.Subscription, error)
	GetByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Subscription, error)
	Create(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error)
	Update(ctx context.Context, subscription domain.Subscription) error
	UpdateStatusBatch(ctx context.Context, updates []domain.StatusUpdate) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subscriptionService struct {
	subscriptionRepo SubscriptionRepository
	customerRepo     CustomerRepository
	platformRepo     PlatformRepository
	log              *logger.Logger
}

// NewSubscriptionService создает новый сервис для работы с подписками
func NewSubscriptionService(
	subscriptionRepo SubscriptionRepository,
	customerRepo CustomerRepository,
	platformRepo PlatformRepository,
	log *logger.Logger,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		platformRepo:     platformRepo,
		log:              log,
	}
}

// GetAll возвращает все подписки
func (s *subscriptionService) GetAll(ctx context.Context) ([]domain.Subscription, error) {
	s.log.Debug("Getting all subscriptions")

	subscriptions, err := s.subscriptionRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get subscriptions: %v", err)
		return nil, err
	}

	return subscriptions, nil
}

// GetByID возвращает подписку по ID
func (s *subscriptionService) GetByID(ctx context.Context, id string) (domain.Subscription, error) {
	s.log.Debug("Getting subscription by ID: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Subscription{}, repository.ErrInvalidData
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Subscription not found: %s", id)
		} else {
			s.log.Error("Error fetching subscription: %v", err)
		}
		return domain.Subscription{}, err
	}

	return subscription, nil
}

// GetByCustomerID возвращает подписки клиента
func (s *subscriptionService) GetByCustomerID(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	s.log.Debug("Getting subscriptions for customer: %s", customerID)

	uuidCustomerID, err := uuid.Parse(customerID)
	if err != nil {
		s.log.Warn("Invalid UUID format for customer ID: %s", customerID)
		return nil, repository.ErrInvalidData
	}

	// Проверяем существование клиента
	if _, err := s.customerRepo.GetByID(ctx, uuidCustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Customer not found: %s", customerID)
		} else {
			s.log.Error("Error fetching customer: %v", err)
		}
		return nil, err
	}

	subscriptions, err := s.subscriptionRepo.GetByCustomerID(ctx, uuidCustomerID)
	if err != nil {
		s.log.Error("Failed to get subscriptions for customer: %v", err)
		return nil, err
	}

	return subscriptions, nil
}

// Create создает новую подписку
func (s *subscriptionService) Create(ctx context.Context, req domain.SubscriptionRequest) (domain.Subscription, error) {
	s.log.Debug("Creating subscription for customer: %s, platform: %s", req.CustomerID, req.PlatformID)

	customerID, platformID, err := s.validateReferences(ctx, req)
	if err != nil {
		return domain.Subscription{}, err
	}

	subscription := domain.Subscription{
		ID:         uuid.New(),
		CustomerID: customerID,
		PlatformID: platformID,
		Type:       req.Type,
		StartDate:  req.StartDate,
		ExpiryDate: req.ExpiryDate,
		Cost:       req.Cost,
		Status:     domain.SubscriptionStatus(req.Status),
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
	}

	createdSubscription, err := s.subscriptionRepo.Create(ctx, subscription)
	if err != nil {
		s.log.Error("Failed to create subscription: %v", err)
		return domain.Subscription{}, err
	}

	s.log.Info("Created subscription with ID: %s", createdSubscription.ID)
	return createdSubscription, nil
}

// Update обновляет существующую подписку
func (s *subscriptionService) Update(ctx context.Context, id string, req domain.SubscriptionRequest) (domain.Subscription, error) {
	s.log.Debug("Updating subscription: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Subscription{}, repository.ErrInvalidData
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, uuidID)
	if err != nil {
		return domain.Subscription{}, err
	}

	customerID, platformID, err := s.validateReferences(ctx, req)
	if err != nil {
		return domain.Subscription{}, err
	}

	subscription.CustomerID = customerID
	subscription.PlatformID = platformID
	subscription.Type = req.Type
	subscription.StartDate = req.StartDate
	subscription.ExpiryDate = req.ExpiryDate
	subscription.Cost = req.Cost
	subscription.Status = domain.SubscriptionStatus(req.Status)
	subscription.Notes = req.Notes

	if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
		s.log.Error("Failed to update subscription: %v", err)
		return domain.Subscription{}, err
	}

	return subscription, nil
}

// Delete удаляет подписку
func (s *subscriptionService) Delete(ctx context.Context, id string) error {
	s.log.Debug("Deleting subscription: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return repository.ErrInvalidData
	}

	if err := s.subscriptionRepo.Delete(ctx, uuidID); err != nil {
		s.log.Error("Failed to delete subscription: %v", err)
		return err
	}

	s.log.Info("Deleted subscription with ID: %s", id)
	return nil
}

// validateReferences проверяет ID клиента и платформы и их существование
func (s *subscriptionService) validateReferences(ctx context.Context, req domain.SubscriptionRequest) (uuid.UUID, uuid.UUID, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		s.log.Warn("Invalid UUID format for customer ID: %s", req.CustomerID)
		return uuid.Nil, uuid.Nil, repository.ErrInvalidData
	}

	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Customer not found: %s", req.CustomerID)
		}
		return uuid.Nil, uuid.Nil, err
	}

	platformID, err := uuid.Parse(req.PlatformID)
	if err != nil {
		s.log.Warn("Invalid UUID format for platform ID: %s", req.PlatformID)
		return uuid.Nil, uuid.Nil, repository.ErrInvalidData
	}

	if _, err := s.platformRepo.GetByID(ctx, platformID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Platform not found: %s", req.PlatformID)
		}
		return uuid.Nil, uuid.Nil, err
	}

	return customerID, platformID, nil
}
