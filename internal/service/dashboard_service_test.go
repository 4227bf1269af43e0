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

func TestDashboardServiceSummary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)

	customerRepo := repository.NewInMemoryCustomerRepository(log)
	platformRepo := repository.NewInMemoryPlatformRepository(log)
	subscriptionRepo := repository.NewInMemorySubscriptionRepository(log)
	notificationRepo := repository.NewInMemoryNotificationRepository(log)

	customer := domain.Customer{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
	_, err := customerRepo.Create(ctx, customer)
	require.NoError(t, err)

	platform := domain.Platform{ID: uuid.New(), Name: "Netflix", Type: domain.PlatformTypeSubscription}
	_, err = platformRepo.Create(ctx, platform)
	require.NoError(t, err)

	addSubscription := func(expiresIn time.Duration, status domain.SubscriptionStatus, cost float64) domain.Subscription {
		sub := domain.Subscription{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			PlatformID: platform.ID,
			ExpiryDate: now.Add(expiresIn),
			Cost:       cost,
			Status:     status,
		}
		created, err := subscriptionRepo.Create(ctx, sub)
		require.NoError(t, err)
		return created
	}

	upcoming := addSubscription(10*24*time.Hour, domain.SubscriptionStatusActive, 9.99)
	addSubscription(90*24*time.Hour, domain.SubscriptionStatusActive, 5.01)
	addSubscription(-10*24*time.Hour, domain.SubscriptionStatusExpired, 20)

	relatedID := upcoming.ID
	_, err = notificationRepo.CreateBatch(ctx, []domain.Notification{{
		ID:        uuid.New(),
		Type:      domain.NotificationTypeExpiringSoon,
		RelatedID: &relatedID,
	}})
	require.NoError(t, err)

	svc := NewDashboardService(subscriptionRepo, customerRepo, platformRepo, notificationRepo, log)
	svc.(*dashboardService).now = func() time.Time { return now }

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalCustomers)
	assert.Equal(t, 1, summary.TotalPlatforms)
	assert.Equal(t, 3, summary.TotalSubscriptions)
	assert.Equal(t, 2, summary.ActiveSubscriptions)
	assert.InDelta(t, 15.00, summary.MonthlyCost, 0.001)
	assert.Equal(t, 1, summary.UnreadNotifications)

	// В блок "скоро истекают" попадают только активные подписки внутри горизонта
	require.Len(t, summary.UpcomingExpirations, 1)
	assert.Equal(t, upcoming.ID, summary.UpcomingExpirations[0].ID)
}
