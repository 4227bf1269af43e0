package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// InMemorySubscriptionRepository реализация репозитория подписок в памяти
type InMemorySubscriptionRepository struct {
	subscriptions map[uuid.UUID]domain.Subscription
	mutex         sync.RWMutex
	log           *logger.Logger
}

// NewInMemorySubscriptionRepository создает новый репозиторий подписок в памяти
func NewInMemorySubscriptionRepository(log *logger.Logger) *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{
		subscriptions: make(map[uuid.UUID]domain.Subscription),
		log:           log,
	}
}

// GetAll возвращает все подписки
func (r *InMemorySubscriptionRepository) GetAll(ctx context.Context) ([]domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	subscriptions := make([]domain.Subscription, 0, len(r.subscriptions))
	for _, subscription := range r.subscriptions {
		subscriptions = append(subscriptions, subscription)
	}

	return subscriptions, nil
}

// GetByID возвращает подписку по ID
func (r *InMemorySubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	subscription, exists := r.subscriptions[id]
	if !exists {
		return domain.Subscription{}, ErrNotFound
	}

	return subscription, nil
}

// GetByCustomerID возвращает подписки по ID клиента
func (r *InMemorySubscriptionRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var subscriptions []domain.Subscription
	for _, subscription := range r.subscriptions {
		if subscription.CustomerID == customerID {
			subscriptions = append(subscriptions, subscription)
		}
	}

	return subscriptions, nil
}

// GetByPlatformID возвращает подписки по ID платформы
func (r *InMemorySubscriptionRepository) GetByPlatformID(ctx context.Context, platformID uuid.UUID) ([]domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var subscriptions []domain.Subscription
	for _, subscription := range r.subscriptions {
		if subscription.PlatformID == platformID {
			subscriptions = append(subscriptions, subscription)
		}
	}

	return subscriptions, nil
}

// GetByStatus возвращает подписки с заданным статусом
func (r *InMemorySubscriptionRepository) GetByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var subscriptions []domain.Subscription
	for _, subscription := range r.subscriptions {
		if subscription.Status == status {
			subscriptions = append(subscriptions, subscription)
		}
	}

	return subscriptions, nil
}

// Create создает новую подписку
func (r *InMemorySubscriptionRepository) Create(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	subscription.CreatedAt = time.Now()
	r.subscriptions[subscription.ID] = subscription

	return subscription, nil
}

// Update обновляет существующую подписку
func (r *InMemorySubscriptionRepository) Update(ctx context.Context, subscription domain.Subscription) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.subscriptions[subscription.ID]
	if !exists {
		return ErrNotFound
	}

	subscription.CreatedAt = existing.CreatedAt
	r.subscriptions[subscription.ID] = subscription

	return nil
}

// UpdateStatusBatch применяет пакет переходов статусов; возвращает число обновленных подписок.
// Подписки, которых уже нет, пропускаются: проход мог конкурировать с удалением.
func (r *InMemorySubscriptionRepository) UpdateStatusBatch(ctx context.Context, updates []domain.StatusUpdate) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	updated := 0
	for _, update := range updates {
		subscription, exists := r.subscriptions[update.SubscriptionID]
		if !exists {
			continue
		}
		subscription.Status = update.NewStatus
		r.subscriptions[update.SubscriptionID] = subscription
		updated++
	}

	return updated, nil
}

// Delete удаляет подписку
func (r *InMemorySubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.subscriptions[id]; !exists {
		return ErrNotFound
	}

	delete(r.subscriptions, id)

	return nil
}

// PostgresSubscriptionRepository реализация репозитория подписок через PostgreSQL
type PostgresSubscriptionRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresSubscriptionRepository создает новый репозиторий подписок через PostgreSQL
func NewPostgresSubscriptionRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{
		db:  db,
		log: log,
	}
}

const subscriptionColumns = `
	id, customer_id, platform_id, type,
	start_date, expiry_date, cost, status,
	notes, created_at
`

// GetAll возвращает все подписки из базы данных
func (r *PostgresSubscriptionRepository) GetAll(ctx context.Context) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at DESC`
	return r.querySubscriptions(ctx, query)
}

// GetByCustomerID возвращает подписки по ID клиента из базы данных
func (r *PostgresSubscriptionRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.querySubscriptions(ctx, query, customerID)
}

// GetByPlatformID возвращает подписки по ID платформы из базы данных
func (r *PostgresSubscriptionRepository) GetByPlatformID(ctx context.Context, platformID uuid.UUID) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE platform_id = $1 ORDER BY created_at DESC`
	return r.querySubscriptions(ctx, query, platformID)
}

// GetByStatus возвращает подписки с заданным статусом из базы данных
func (r *PostgresSubscriptionRepository) GetByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status = $1 ORDER BY created_at DESC`
	return r.querySubscriptions(ctx, query, string(status))
}

// GetByID возвращает подписку по ID из базы данных
func (r *PostgresSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	subscription, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}

	return subscription, nil
}

// Create создает новую подписку в базе данных
func (r *PostgresSubscriptionRepository) Create(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error) {
	query := `
		INSERT INTO subscriptions (
			id, customer_id, platform_id, type,
			start_date, expiry_date, cost, status,
			notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		subscription.ID,
		subscription.CustomerID,
		subscription.PlatformID,
		subscription.Type,
		subscription.StartDate,
		subscription.ExpiryDate,
		subscription.Cost,
		string(subscription.Status),
		nullableString(subscription.Notes),
		time.Now(),
	).Scan(
		&subscription.ID,
		&subscription.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Проверяем код ошибки на нарушение внешнего ключа
			if pgErr.Code == "23503" {
				return domain.Subscription{}, ErrNotFound
			}
		}
		return domain.Subscription{}, fmt.Errorf("failed to create subscription: %w", err)
	}

	return subscription, nil
}

// Update обновляет существующую подписку в базе данных
func (r *PostgresSubscriptionRepository) Update(ctx context.Context, subscription domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET
			customer_id = $1,
			platform_id = $2,
			type = $3,
			start_date = $4,
			expiry_date = $5,
			cost = $6,
			status = $7,
			notes = $8
		WHERE id = $9
	`

	result, err := r.db.Exec(
		ctx,
		query,
		subscription.CustomerID,
		subscription.PlatformID,
		subscription.Type,
		subscription.StartDate,
		subscription.ExpiryDate,
		subscription.Cost,
		string(subscription.Status),
		nullableString(subscription.Notes),
		subscription.ID,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStatusBatch применяет пакет переходов статусов; возвращает число обновленных подписок
func (r *PostgresSubscriptionRepository) UpdateStatusBatch(ctx context.Context, updates []domain.StatusUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	query := `UPDATE subscriptions SET status = $1 WHERE id = $2`

	batch := &pgx.Batch{}
	for _, update := range updates {
		batch.Queue(query, string(update.NewStatus), update.SubscriptionID)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	updated := 0
	for range updates {
		tag, err := results.Exec()
		if err != nil {
			return updated, fmt.Errorf("failed to update subscription status: %w", err)
		}
		updated += int(tag.RowsAffected())
	}

	return updated, nil
}

// Delete удаляет подписку из базы данных
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// querySubscriptions выполняет запрос и читает список подписок
func (r *PostgresSubscriptionRepository) querySubscriptions(ctx context.Context, query string, args ...interface{}) ([]domain.Subscription, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []domain.Subscription
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subscriptions = append(subscriptions, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subscriptions, nil
}

// scanSubscription читает одну строку подписки
func scanSubscription(row pgx.Row) (domain.Subscription, error) {
	var subscription domain.Subscription
	var status string
	var notes *string

	err := row.Scan(
		&subscription.ID,
		&subscription.CustomerID,
		&subscription.PlatformID,
		&subscription.Type,
		&subscription.StartDate,
		&subscription.ExpiryDate,
		&subscription.Cost,
		&status,
		&notes,
		&subscription.CreatedAt,
	)
	if err != nil {
		return domain.Subscription{}, err
	}

	subscription.Status = domain.SubscriptionStatus(status)
	if notes != nil {
		subscription.Notes = *notes
	}

	return subscription, nil
}
