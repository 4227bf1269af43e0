package service

import (
	"context"
	"errors"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// NotificationService интерфейс сервиса для работы с уведомлениями.
// Сервис только читает и помечает уже сгенерированные уведомления:
// генерация происходит исключительно в SyncService.
type NotificationService interface {
	GetAll(ctx context.Context) ([]domain.Notification, error)
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	CountUnread(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	log              *logger.Logger
}

// NewNotificationService создает новый сервис для работы с уведомлениями
func NewNotificationService(notificationRepo repository.NotificationRepository, log *logger.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		log:              log,
	}
}

// GetAll возвращает все уведомления
func (s *notificationService) GetAll(ctx context.Context) ([]domain.Notification, error) {
	s.log.Debug("Getting all notifications")

	notifications, err := s.notificationRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to get notifications: %v", err)
		return nil, err
	}

	return notifications, nil
}

// GetByID возвращает уведомление по ID
func (s *notificationService) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	s.log.Debug("Getting notification by ID: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Notification{}, repository.ErrInvalidData
	}

	notification, err := s.notificationRepo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Notification not found: %s", id)
		} else {
			s.log.Error("Error fetching notification: %v", err)
		}
		return domain.Notification{}, err
	}

	return notification, nil
}

// MarkRead помечает уведомление прочитанным
func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	s.log.Debug("Marking notification read: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return repository.ErrInvalidData
	}

	if err := s.notificationRepo.MarkRead(ctx, uuidID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("Failed to mark notification read: %v", err)
		}
		return err
	}

	return nil
}

// MarkAllRead помечает все уведомления прочитанными
func (s *notificationService) MarkAllRead(ctx context.Context) error {
	s.log.Debug("Marking all notifications read")

	if err := s.notificationRepo.MarkAllRead(ctx); err != nil {
		s.log.Error("Failed to mark all notifications read: %v", err)
		return err
	}

	return nil
}

// CountUnread возвращает число непрочитанных уведомлений
func (s *notificationService) CountUnread(ctx context.Context) (int, error) {
	count, err := s.notificationRepo.CountUnread(ctx)
	if err != nil {
		s.log.Error("Failed to count unread notifications: %v", err)
		return 0, err
	}

	return count, nil
}

// Delete удаляет уведомление
func (s *notificationService) Delete(ctx context.Context, id string) error {
	s.log.Debug("Deleting notification: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return repository.ErrInvalidData
	}

	if err := s.notificationRepo.Delete(ctx, uuidID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("Failed to delete notification: %v", err)
		}
		return err
	}

	s.log.Info("Deleted notification with ID: %s", id)
	return nil
}
