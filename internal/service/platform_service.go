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

// PlatformService интерфейс сервиса для работы с платформами
type PlatformService interface {
	GetAll(ctx context.Context) ([]domain.Platform, error)
	GetByID(ctx context.Context, id string) (domain.Platform, error)
	Create(ctx context.Context, req domain.PlatformRequest) (domain.Platform, error)
	Update(ctx context.Context, id string, req domain.PlatformRequest) (domain.Platform, error)
	Delete(ctx context.Context, id string) error
}

// PlatformRepository интерфейс репозитория для работы с платформами
type PlatformRepository interface {
	GetAll(ctx context.Context) ([]domain.Platform, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Platform, error)
	Create(ctx context.Context, platform domain.Platform) (domain.Platform, error)
	Update(ctx context.Context, platform domain.Platform) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type platformService struct {
	platformRepo     PlatformRepository
	subscriptionRepo SubscriptionRepository
	log              *logger.Logger
}

// NewPlatformService создает новый сервис для работы с платформами
func NewPlatformService(platformRepo PlatformRepository, subscriptionRepo SubscriptionRepository, log *logger.Logger) PlatformService {
	return &platformService{
		platformRepo:     platformRepo,
		subscriptionRepo: subscriptionRepo,
		log:              log,
	}
}

// GetAll возвращает все платформы
func (s *platformService) GetAll(ctx context.Context) ([]domain.Platform, error) {
	s.log.Debug("Getting all platforms")

	platforms, err := s.platformRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get platforms: %v", err)
		return nil, err
	}

	return platforms, nil
}

// GetByID возвращает платформу по ID
func (s *platformService) GetByID(ctx context.Context, id string) (domain.Platform, error) {
	s.log.Debug("Getting platform by ID: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Platform{}, repository.ErrInvalidData
	}

	platform, err := s.platformRepo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Platform not found: %s", id)
		} else {
			s.log.Error("Error fetching platform: %v", err)
		}
		return domain.Platform{}, err
	}

	return platform, nil
}

// Create создает новую платформу
func (s *platformService) Create(ctx context.Context, req domain.PlatformRequest) (domain.Platform, error) {
	s.log.Debug("Creating platform: %s", req.Name)

	platform := domain.Platform{
		ID:          uuid.New(),
		Name:        req.Name,
		Type:        domain.PlatformType(req.Type),
		Description: req.Description,
		Logo:        req.Logo,
		CreatedAt:   time.Now(),
	}

	createdPlatform, err := s.platformRepo.Create(ctx, platform)
	if err != nil {
		s.log.Error("Failed to create platform: %v", err)
		return domain.Platform{}, err
	}

	s.log.Info("Created platform with ID: %s", createdPlatform.ID)
	return createdPlatform, nil
}

// Update обновляет существующую платформу
func (s *platformService) Update(ctx context.Context, id string, req domain.PlatformRequest) (domain.Platform, error) {
	s.log.Debug("Updating platform: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Platform{}, repository.ErrInvalidData
	}

	platform, err := s.platformRepo.GetByID(ctx, uuidID)
	if err != nil {
		return domain.Platform{}, err
	}

	platform.Name = req.Name
	platform.Type = domain.PlatformType(req.Type)
	platform.Description = req.Description
	platform.Logo = req.Logo

	if err := s.platformRepo.Update(ctx, platform); err != nil {
		s.log.Error("Failed to update platform: %v", err)
		return domain.Platform{}, err
	}

	return platform, nil
}

// Delete удаляет платформу. Платформу с подписками удалить нельзя.
func (s *platformService) Delete(ctx context.Context, id string) error {
	s.log.Debug("Deleting platform: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return repository.ErrInvalidData
	}

	subscriptions, err := s.subscriptionRepo.GetByPlatformID(ctx, uuidID)
	if err != nil {
		s.log.Error("Failed to check platform subscriptions: %v", err)
		return err
	}

	if len(subscriptions) > 0 {
		s.log.Warn("Cannot delete platform %s: %d subscriptions exist", id, len(subscriptions))
		return repository.ErrInvalidOperation
	}

	if err := s.platformRepo.Delete(ctx, uuidID); err != nil {
		s.log.Error("Failed to delete platform: %v", err)
		return err
	}

	s.log.Info("Deleted platform with ID: %s", id)
	return nil
}
