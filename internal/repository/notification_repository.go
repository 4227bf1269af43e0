package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// InMemoryNotificationRepository реализация репозитория уведомлений в памяти.
// Воспроизводит ограничение уникальности (type, related_id), которое в PostgreSQL
// обеспечивает частичный уникальный индекс.
type InMemoryNotificationRepository struct {
	notifications map[uuid.UUID]domain.Notification
	byKey         map[domain.NotificationKey]uuid.UUID
	mutex         sync.RWMutex
	log           *logger.Logger
}

// NewInMemoryNotificationRepository создает новый репозиторий уведомлений в памяти
func NewInMemoryNotificationRepository(log *logger.Logger) *InMemoryNotificationRepository {
	return &InMemoryNotificationRepository{
		notifications: make(map[uuid.UUID]domain.Notification),
		byKey:         make(map[domain.NotificationKey]uuid.UUID),
		log:           log,
	}
}

// GetAll возвращает все уведомления
func (r *InMemoryNotificationRepository) GetAll(ctx context.Context) ([]domain.Notification, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	notifications := make([]domain.Notification, 0, len(r.notifications))
	for _, notification := range r.notifications {
		notifications = append(notifications, notification)
	}

	return notifications, nil
}

// GetByID возвращает уведомление по ID
func (r *InMemoryNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	notification, exists := r.notifications[id]
	if !exists {
		return domain.Notification{}, ErrNotFound
	}

	return notification, nil
}

// CreateBatch вставляет пакет уведомлений, пропуская дубликаты по ключу (type, related_id).
// Возвращает число реально вставленных записей.
func (r *InMemoryNotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	inserted := 0
	for _, notification := range notifications {
		if notification.RelatedID != nil {
			key := notification.DedupKey()
			if _, exists := r.byKey[key]; exists {
				// Дубликат по ограничению уникальности: тихо пропускаем
				continue
			}
			r.byKey[key] = notification.ID
		}

		if notification.CreatedAt.IsZero() {
			notification.CreatedAt = time.Now()
		}
		r.notifications[notification.ID] = notification
		inserted++
	}

	return inserted, nil
}

// MarkRead помечает уведомление прочитанным
func (r *InMemoryNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	notification, exists := r.notifications[id]
	if !exists {
		return ErrNotFound
	}

	notification.Read = true
	r.notifications[id] = notification

	return nil
}

// MarkAllRead помечает все уведомления прочитанными
func (r *InMemoryNotificationRepository) MarkAllRead(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, notification := range r.notifications {
		notification.Read = true
		r.notifications[id] = notification
	}

	return nil
}

// CountUnread возвращает число непрочитанных уведомлений
func (r *InMemoryNotificationRepository) CountUnread(ctx context.Context) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	count := 0
	for _, notification := range r.notifications {
		if !notification.Read {
			count++
		}
	}

	return count, nil
}

// Delete удаляет уведомление
func (r *InMemoryNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	notification, exists := r.notifications[id]
	if !exists {
		return ErrNotFound
	}

	if notification.RelatedID != nil {
		delete(r.byKey, notification.DedupKey())
	}
	delete(r.notifications, id)

	return nil
}

// PostgresNotificationRepository реализация репозитория уведомлений через PostgreSQL
type PostgresNotificationRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresNotificationRepository создает новый репозиторий уведомлений через PostgreSQL
func NewPostgresNotificationRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{
		db:  db,
		log: log,
	}
}

// GetAll возвращает все уведомления из базы данных
func (r *PostgresNotificationRepository) GetAll(ctx context.Context) ([]domain.Notification, error) {
	query := `
		SELECT id, type, title, message, date, read, related_id, created_at
		FROM notifications
		ORDER BY date DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// GetByID возвращает уведомление по ID из базы данных
func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	query := `
		SELECT id, type, title, message, date, read, related_id, created_at
		FROM notifications
		WHERE id = $1
	`

	notification, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Notification{}, ErrNotFound
		}
		return domain.Notification{}, fmt.Errorf("failed to get notification: %w", err)
	}

	return notification, nil
}

// CreateBatch вставляет пакет уведомлений одним batch-запросом.
// ON CONFLICT DO NOTHING повторно проверяет ключ дедупликации (type, related_id)
// в момент записи: конкурирующий проход мог вставить ту же пару после чтения
// нашего снапшота. Возвращает число реально вставленных записей.
func (r *PostgresNotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) (int, error) {
	if len(notifications) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO notifications (id, type, title, message, date, read, related_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (type, related_id) WHERE related_id IS NOT NULL DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, notification := range notifications {
		createdAt := notification.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		batch.Queue(
			query,
			notification.ID,
			string(notification.Type),
			notification.Title,
			notification.Message,
			notification.Date,
			notification.Read,
			notification.RelatedID,
			createdAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range notifications {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert notification: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// MarkRead помечает уведомление прочитанным в базе данных
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// MarkAllRead помечает все уведомления прочитанными в базе данных
func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context) error {
	query := `UPDATE notifications SET read = TRUE WHERE read = FALSE`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return nil
}

// CountUnread возвращает число непрочитанных уведомлений из базы данных
func (r *PostgresNotificationRepository) CountUnread(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE read = FALSE`

	var count int
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// Delete удаляет уведомление из базы данных
func (r *PostgresNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// scanNotification читает одну строку уведомления
func scanNotification(row pgx.Row) (domain.Notification, error) {
	var notification domain.Notification
	var notificationType string
	var relatedID *uuid.UUID

	err := row.Scan(
		&notification.ID,
		&notificationType,
		&notification.Title,
		&notification.Message,
		&notification.Date,
		&notification.Read,
		&relatedID,
		&notification.CreatedAt,
	)
	if err != nil {
		return domain.Notification{}, err
	}

	notification.Type = domain.NotificationType(notificationType)
	notification.RelatedID = relatedID

	return notification, nil
}
