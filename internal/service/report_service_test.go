package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

func TestReportService(t *testing.T) {
	ctx := context.Background()

	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)

	customerRepo := repository.NewInMemoryCustomerRepository(log)
	platformRepo := repository.NewInMemoryPlatformRepository(log)
	subscriptionRepo := repository.NewInMemorySubscriptionRepository(log)

	customer := domain.Customer{
		ID:      uuid.New(),
		Name:    "Alice",
		Email:   "alice@example.com",
		Phone:   "+1-555-0100",
		Address: "1 Main St",
	}
	_, err := customerRepo.Create(ctx, customer)
	require.NoError(t, err)

	platform := domain.Platform{ID: uuid.New(), Name: "Netflix", Type: domain.PlatformTypeSubscription}
	_, err = platformRepo.Create(ctx, platform)
	require.NoError(t, err)

	subscription := domain.Subscription{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		PlatformID: platform.ID,
		Type:       "monthly",
		StartDate:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Cost:       9.99,
		Status:     domain.SubscriptionStatusActive,
		Notes:      "family plan",
	}
	_, err = subscriptionRepo.Create(ctx, subscription)
	require.NoError(t, err)

	svc := NewReportService(subscriptionRepo, customerRepo, platformRepo, log)

	t.Run("subscriptions report", func(t *testing.T) {
		data, err := svc.SubscriptionsCSV(ctx)
		require.NoError(t, err)

		want := "Customer,Platform,Type,Start Date,Expiry Date,Cost,Status,Notes\n" +
			"Alice,Netflix,monthly,2025-05-01,2025-06-01,9.99,active,family plan\n"
		assert.Equal(t, want, string(data))
	})

	t.Run("customers report counts active subscriptions", func(t *testing.T) {
		data, err := svc.CustomersCSV(ctx)
		require.NoError(t, err)

		want := "Name,Email,Phone,Address,Active Subscriptions\n" +
			"Alice,alice@example.com,+1-555-0100,1 Main St,1\n"
		assert.Equal(t, want, string(data))
	})

	t.Run("unknown references fall back to placeholder", func(t *testing.T) {
		orphan := domain.Subscription{
			ID:         uuid.New(),
			CustomerID: uuid.New(),
			PlatformID: uuid.New(),
			Type:       "annual",
			StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			ExpiryDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Cost:       99,
			Status:     domain.SubscriptionStatusActive,
		}
		_, err := subscriptionRepo.Create(ctx, orphan)
		require.NoError(t, err)
		defer func() {
			require.NoError(t, subscriptionRepo.Delete(ctx, orphan.ID))
		}()

		data, err := svc.SubscriptionsCSV(ctx)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Unknown,Unknown,annual,2025-01-01,2026-01-01,99.00,active,\n")
	})
}
