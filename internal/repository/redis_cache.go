package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

const (
	// Ключи для кеша уведомлений
	notificationListKey   = "notifications:all"
	notificationUnreadKey = "notifications:unread_count"

	// TTL для кэша
	defaultCacheTTL = 5 * time.Minute
)

// RedisCacheRepository реализует кеширование ленты уведомлений с использованием Redis
type RedisCacheRepository struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCacheRepository создает новый экземпляр Redis репозитория
func NewRedisCacheRepository(redisAddr, redisPassword string, redisDB int, log *logger.Logger) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// Проверяем соединение с Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return &RedisCacheRepository{
		client: client,
		log:    log,
	}, nil
}

// Close закрывает соединение с Redis
func (r *RedisCacheRepository) Close() error {
	return r.client.Close()
}

// CacheNotifications кеширует ленту уведомлений
func (r *RedisCacheRepository) CacheNotifications(ctx context.Context, notifications []domain.Notification) error {
	data, err := json.Marshal(notifications)
	if err != nil {
		r.log.Errorw("Failed to marshal notifications for caching", "error", err)
		return fmt.Errorf("failed to marshal notifications: %w", err)
	}

	if err := r.client.Set(ctx, notificationListKey, data, defaultCacheTTL).Err(); err != nil {
		r.log.Errorw("Failed to cache notifications in Redis", "error", err)
		return fmt.Errorf("failed to cache notifications: %w", err)
	}

	r.log.Debugw("Notifications cached successfully", "count", len(notifications))
	return nil
}

// GetCachedNotifications получает ленту уведомлений из кеша.
// Возвращает ErrNotFound при промахе кеша.
func (r *RedisCacheRepository) GetCachedNotifications(ctx context.Context) ([]domain.Notification, error) {
	data, err := r.client.Get(ctx, notificationListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		r.log.Errorw("Failed to get cached notifications", "error", err)
		return nil, fmt.Errorf("failed to get cached notifications: %w", err)
	}

	var notifications []domain.Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		r.log.Errorw("Failed to unmarshal cached notifications", "error", err)
		return nil, fmt.Errorf("failed to unmarshal cached notifications: %w", err)
	}

	return notifications, nil
}

// CacheUnreadCount кеширует число непрочитанных уведомлений
func (r *RedisCacheRepository) CacheUnreadCount(ctx context.Context, count int) error {
	if err := r.client.Set(ctx, notificationUnreadKey, count, defaultCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache unread count: %w", err)
	}
	return nil
}

// GetCachedUnreadCount получает число непрочитанных уведомлений из кеша
func (r *RedisCacheRepository) GetCachedUnreadCount(ctx context.Context) (int, error) {
	count, err := r.client.Get(ctx, notificationUnreadKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get cached unread count: %w", err)
	}
	return count, nil
}

// InvalidateNotifications сбрасывает кеш уведомлений.
// Вызывается после любой записи в коллекцию уведомлений.
func (r *RedisCacheRepository) InvalidateNotifications(ctx context.Context) error {
	if err := r.client.Del(ctx, notificationListKey, notificationUnreadKey).Err(); err != nil {
		r.log.Errorw("Failed to invalidate notification cache", "error", err)
		return fmt.Errorf("failed to invalidate notification cache: %w", err)
	}

	r.log.Debugw("Notification cache invalidated")
	return nil
}
