package repository

import (
	"context"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	GetAll(ctx context.Context) ([]domain.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error)
	CreateBatch(ctx context.Context, notifications []domain.Notification) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
	CountUnread(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CachedNotificationRepository репозиторий уведомлений с кешированием чтения через Redis.
// Кеш работает best-effort: любая ошибка кеша приводит к чтению из базового репозитория,
// а записи всегда идут в базовый репозиторий с последующей инвалидацией кеша.
type CachedNotificationRepository struct {
	base  NotificationRepository
	cache *RedisCacheRepository
	log   *logger.Logger
}

// NewCachedNotificationRepository создает репозиторий уведомлений с кешированием
func NewCachedNotificationRepository(base NotificationRepository, cache *RedisCacheRepository, log *logger.Logger) *CachedNotificationRepository {
	return &CachedNotificationRepository{
		base:  base,
		cache: cache,
		log:   log,
	}
}

// GetAll возвращает все уведомления, по возможности из кеша
func (r *CachedNotificationRepository) GetAll(ctx context.Context) ([]domain.Notification, error) {
	cached, err := r.cache.GetCachedNotifications(ctx)
	if err == nil {
		r.log.Debugw("Notification list served from cache", "count", len(cached))
		return cached, nil
	}

	notifications, err := r.base.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if cacheErr := r.cache.CacheNotifications(ctx, notifications); cacheErr != nil {
		r.log.Warnw("Failed to populate notification cache", "error", cacheErr)
	}

	return notifications, nil
}

// GetByID возвращает уведомление по ID (без кеша: точечные чтения редки)
func (r *CachedNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	return r.base.GetByID(ctx, id)
}

// CreateBatch вставляет пакет уведомлений и сбрасывает кеш
func (r *CachedNotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) (int, error) {
	inserted, err := r.base.CreateBatch(ctx, notifications)
	if err != nil {
		return inserted, err
	}

	if inserted > 0 {
		r.invalidate(ctx)
	}

	return inserted, nil
}

// MarkRead помечает уведомление прочитанным и сбрасывает кеш
func (r *CachedNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := r.base.MarkRead(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

// MarkAllRead помечает все уведомления прочитанными и сбрасывает кеш
func (r *CachedNotificationRepository) MarkAllRead(ctx context.Context) error {
	if err := r.base.MarkAllRead(ctx); err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

// CountUnread возвращает число непрочитанных уведомлений, по возможности из кеша
func (r *CachedNotificationRepository) CountUnread(ctx context.Context) (int, error) {
	count, err := r.cache.GetCachedUnreadCount(ctx)
	if err == nil {
		return count, nil
	}

	count, err = r.base.CountUnread(ctx)
	if err != nil {
		return 0, err
	}

	if cacheErr := r.cache.CacheUnreadCount(ctx, count); cacheErr != nil {
		r.log.Warnw("Failed to cache unread count", "error", cacheErr)
	}

	return count, nil
}

// Delete удаляет уведомление и сбрасывает кеш
func (r *CachedNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.base.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *CachedNotificationRepository) invalidate(ctx context.Context) {
	if err := r.cache.InvalidateNotifications(ctx); err != nil {
		r.log.Warnw("Failed to invalidate notification cache", "error", err)
	}
}
