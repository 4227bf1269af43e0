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

// InMemoryCustomerRepository реализация репозитория клиентов в памяти
type InMemoryCustomerRepository struct {
	customers map[uuid.UUID]domain.Customer
	mutex     sync.RWMutex
	log       *logger.Logger
}

// NewInMemoryCustomerRepository создает новый репозиторий клиентов в памяти
func NewInMemoryCustomerRepository(log *logger.Logger) *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: make(map[uuid.UUID]domain.Customer),
		log:       log,
	}
}

// GetAll возвращает всех клиентов
func (r *InMemoryCustomerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customers := make([]domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		customers = append(customers, customer)
	}

	return customers, nil
}

// GetByID возвращает клиента по ID
func (r *InMemoryCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}

	return customer, nil
}

// Create создает нового клиента
func (r *InMemoryCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Email клиента должен быть уникальным
	for _, existing := range r.customers {
		if existing.Email == customer.Email {
			return domain.Customer{}, ErrDuplicate
		}
	}

	customer.CreatedAt = time.Now()
	r.customers[customer.ID] = customer

	return customer, nil
}

// Update обновляет существующего клиента
func (r *InMemoryCustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.customers[customer.ID]
	if !exists {
		return ErrNotFound
	}

	customer.CreatedAt = existing.CreatedAt
	r.customers[customer.ID] = customer

	return nil
}

// Delete удаляет клиента
func (r *InMemoryCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.customers[id]; !exists {
		return ErrNotFound
	}

	delete(r.customers, id)

	return nil
}

// PostgresCustomerRepository реализация репозитория клиентов через PostgreSQL
type PostgresCustomerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresCustomerRepository создает новый репозиторий клиентов через PostgreSQL
func NewPostgresCustomerRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:  db,
		log: log,
	}
}

// GetAll возвращает всех клиентов из базы данных
func (r *PostgresCustomerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT id, name, email, phone, address, created_at
		FROM customers
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		var phone, address *string

		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&phone,
			&address,
			&customer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}

		// Преобразуем опциональные поля
		if phone != nil {
			customer.Phone = *phone
		}
		if address != nil {
			customer.Address = *address
		}

		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// GetByID возвращает клиента по ID из базы данных
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	query := `
		SELECT id, name, email, phone, address, created_at
		FROM customers
		WHERE id = $1
	`

	var customer domain.Customer
	var phone, address *string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&phone,
		&address,
		&customer.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	if phone != nil {
		customer.Phone = *phone
	}
	if address != nil {
		customer.Address = *address
	}

	return customer, nil
}

// Create создает нового клиента в базе данных
func (r *PostgresCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	query := `
		INSERT INTO customers (id, name, email, phone, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Email,
		nullableString(customer.Phone),
		nullableString(customer.Address),
		time.Now(),
	).Scan(
		&customer.ID,
		&customer.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Проверяем код ошибки на нарушение уникальности (email)
			if pgErr.Code == "23505" {
				return domain.Customer{}, ErrDuplicate
			}
		}
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// Update обновляет существующего клиента в базе данных
func (r *PostgresCustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(
		ctx,
		query,
		customer.Name,
		customer.Email,
		nullableString(customer.Phone),
		nullableString(customer.Address),
		customer.ID,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет клиента из базы данных
func (r *PostgresCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Нарушение внешнего ключа: у клиента еще есть подписки
			if pgErr.Code == "23503" {
				return ErrInvalidOperation
			}
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// nullableString преобразует пустую строку в NULL
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
