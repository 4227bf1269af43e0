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

// InMemoryPlatformRepository реализация репозитория платформ в памяти
type InMemoryPlatformRepository struct {
	platforms map[uuid.UUID]domain.Platform
	mutex     sync.RWMutex
	log       *logger.Logger
}

// NewInMemoryPlatformRepository создает новый репозиторий платформ в памяти
func NewInMemoryPlatformRepository(log *logger.Logger) *InMemoryPlatformRepository {
	return &InMemoryPlatformRepository{
		platforms: make(map[uuid.UUID]domain.Platform),
		log:       log,
	}
}

// GetAll возвращает все платформы
func (r *InMemoryPlatformRepository) GetAll(ctx context.Context) ([]domain.Platform, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	platforms := make([]domain.Platform, 0, len(r.platforms))
	for _, platform := range r.platforms {
		platforms = append(platforms, platform)
	}

	return platforms, nil
}

// GetByID возвращает платформу по ID
func (r *InMemoryPlatformRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Platform, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	platform, exists := r.platforms[id]
	if !exists {
		return domain.Platform{}, ErrNotFound
	}

	return platform, nil
}

// Create создает новую платформу
func (r *InMemoryPlatformRepository) Create(ctx context.Context, platform domain.Platform) (domain.Platform, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	platform.CreatedAt = time.Now()
	r.platforms[platform.ID] = platform

	return platform, nil
}

// Update обновляет существующую платформу
func (r *InMemoryPlatformRepository) Update(ctx context.Context, platform domain.Platform) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.platforms[platform.ID]
	if !exists {
		return ErrNotFound
	}

	platform.CreatedAt = existing.CreatedAt
	r.platforms[platform.ID] = platform

	return nil
}

// Delete удаляет платформу
func (r *InMemoryPlatformRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.platforms[id]; !exists {
		return ErrNotFound
	}

	delete(r.platforms, id)

	return nil
}

// PostgresPlatformRepository реализация репозитория платформ через PostgreSQL
type PostgresPlatformRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresPlatformRepository создает новый репозиторий платформ через PostgreSQL
func NewPostgresPlatformRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresPlatformRepository {
	return &PostgresPlatformRepository{
		db:  db,
		log: log,
	}
}

// GetAll возвращает все платформы из базы данных
func (r *PostgresPlatformRepository) GetAll(ctx context.Context) ([]domain.Platform, error) {
	query := `
		SELECT id, name, type, description, logo, created_at
		FROM platforms
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query platforms: %w", err)
	}
	defer rows.Close()

	var platforms []domain.Platform
	for rows.Next() {
		platform, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, platform)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating platforms: %w", err)
	}

	return platforms, nil
}

// GetByID возвращает платформу по ID из базы данных
func (r *PostgresPlatformRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Platform, error) {
	query := `
		SELECT id, name, type, description, logo, created_at
		FROM platforms
		WHERE id = $1
	`

	platform, err := scanPlatform(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Platform{}, ErrNotFound
		}
		return domain.Platform{}, fmt.Errorf("failed to get platform: %w", err)
	}

	return platform, nil
}

// Create создает новую платформу в базе данных
func (r *PostgresPlatformRepository) Create(ctx context.Context, platform domain.Platform) (domain.Platform, error) {
	query := `
		INSERT INTO platforms (id, name, type, description, logo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		platform.ID,
		platform.Name,
		string(platform.Type),
		nullableString(platform.Description),
		nullableString(platform.Logo),
		time.Now(),
	).Scan(
		&platform.ID,
		&platform.CreatedAt,
	)

	if err != nil {
		return domain.Platform{}, fmt.Errorf("failed to create platform: %w", err)
	}

	return platform, nil
}

// Update обновляет существующую платформу в базе данных
func (r *PostgresPlatformRepository) Update(ctx context.Context, platform domain.Platform) error {
	query := `
		UPDATE platforms
		SET name = $1, type = $2, description = $3, logo = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(
		ctx,
		query,
		platform.Name,
		string(platform.Type),
		nullableString(platform.Description),
		nullableString(platform.Logo),
		platform.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update platform: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет платформу из базы данных
func (r *PostgresPlatformRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM platforms WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Нарушение внешнего ключа: на платформу еще ссылаются подписки
			if pgErr.Code == "23503" {
				return ErrInvalidOperation
			}
		}
		return fmt.Errorf("failed to delete platform: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// scanPlatform читает одну строку платформы
func scanPlatform(row pgx.Row) (domain.Platform, error) {
	var platform domain.Platform
	var platformType string
	var description, logo *string

	err := row.Scan(
		&platform.ID,
		&platform.Name,
		&platformType,
		&description,
		&logo,
		&platform.CreatedAt,
	)
	if err != nil {
		return domain.Platform{}, err
	}

	platform.Type = domain.PlatformType(platformType)
	if description != nil {
		platform.Description = *description
	}
	if logo != nil {
		platform.Logo = *logo
	}

	return platform, nil
}
