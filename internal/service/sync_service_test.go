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
	"github.com/Dhoini/Subscription-dashboard/internal/kafka"
	"github.com/Dhoini/Subscription-dashboard/internal/metrics"
	"github.com/Dhoini/Subscription-dashboard/internal/notifier"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

type syncFixture struct {
	now              time.Time
	customerRepo     *repository.InMemoryCustomerRepository
	platformRepo     *repository.InMemoryPlatformRepository
	subscriptionRepo *repository.InMemorySubscriptionRepository
	notificationRepo *repository.InMemoryNotificationRepository
	customer         domain.Customer
	platform         domain.Platform
	svc              *syncService
}

func newSyncFixture(t *testing.T, cfg notifier.Config) *syncFixture {
	t.Helper()

	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)

	f := &syncFixture{
		now:              time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		customerRepo:     repository.NewInMemoryCustomerRepository(log),
		platformRepo:     repository.NewInMemoryPlatformRepository(log),
		subscriptionRepo: repository.NewInMemorySubscriptionRepository(log),
		notificationRepo: repository.NewInMemoryNotificationRepository(log),
	}

	ctx := context.Background()

	f.customer = domain.Customer{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
	_, err := f.customerRepo.Create(ctx, f.customer)
	require.NoError(t, err)

	f.platform = domain.Platform{ID: uuid.New(), Name: "Netflix", Type: domain.PlatformTypeSubscription}
	_, err = f.platformRepo.Create(ctx, f.platform)
	require.NoError(t, err)

	svc := NewSyncService(
		f.subscriptionRepo,
		f.customerRepo,
		f.platformRepo,
		f.notificationRepo,
		cfg,
		kafka.NoOpProducer{},
		metrics.NoOpSyncMetrics{},
		log,
	)
	f.svc = svc.(*syncService)
	f.svc.now = func() time.Time { return f.now }

	return f
}

func (f *syncFixture) addSubscription(t *testing.T, expiresIn time.Duration, status domain.SubscriptionStatus) domain.Subscription {
	t.Helper()

	sub := domain.Subscription{
		ID:         uuid.New(),
		CustomerID: f.customer.ID,
		PlatformID: f.platform.ID,
		Type:       "monthly",
		StartDate:  f.now.AddDate(0, -1, 0),
		ExpiryDate: f.now.Add(expiresIn),
		Cost:       9.99,
		Status:     status,
	}
	created, err := f.subscriptionRepo.Create(context.Background(), sub)
	require.NoError(t, err)
	return created
}

func TestSyncServiceRunPass(t *testing.T) {
	const day = 24 * time.Hour
	ctx := context.Background()

	t.Run("creates notifications and expires subscriptions", func(t *testing.T) {
		f := newSyncFixture(t, notifier.Config{})
		f.addSubscription(t, 5*day, domain.SubscriptionStatusActive)
		expired := f.addSubscription(t, -10*day, domain.SubscriptionStatusActive)

		summary, err := f.svc.RunPass(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.NotificationsCreated)
		assert.Equal(t, 1, summary.SubscriptionsUpdated)
		assert.Zero(t, summary.SkippedMissingRefs)

		notifications, err := f.notificationRepo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, notifications, 2)

		updated, err := f.subscriptionRepo.GetByID(ctx, expired.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionStatusExpired, updated.Status)
	})

	t.Run("second pass creates nothing", func(t *testing.T) {
		f := newSyncFixture(t, notifier.Config{})
		f.addSubscription(t, 5*day, domain.SubscriptionStatusActive)
		f.addSubscription(t, -10*day, domain.SubscriptionStatusActive)

		first, err := f.svc.RunPass(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, first.NotificationsCreated)

		second, err := f.svc.RunPass(ctx)
		require.NoError(t, err)

		assert.Zero(t, second.NotificationsCreated)
		assert.Zero(t, second.SubscriptionsUpdated)

		notifications, err := f.notificationRepo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, notifications, 2)
	})

	t.Run("empty store yields empty summary", func(t *testing.T) {
		f := newSyncFixture(t, notifier.Config{})

		summary, err := f.svc.RunPass(ctx)
		require.NoError(t, err)

		assert.Equal(t, PassSummary{}, summary)
	})

	t.Run("dangling reference is skipped and reported", func(t *testing.T) {
		f := newSyncFixture(t, notifier.Config{})

		orphan := domain.Subscription{
			ID:         uuid.New(),
			CustomerID: uuid.New(), // клиент не существует
			PlatformID: f.platform.ID,
			ExpiryDate: f.now.Add(5 * day),
			Status:     domain.SubscriptionStatusActive,
		}
		_, err := f.subscriptionRepo.Create(ctx, orphan)
		require.NoError(t, err)

		summary, err := f.svc.RunPass(ctx)
		require.NoError(t, err)

		assert.Zero(t, summary.NotificationsCreated)
		assert.Equal(t, 1, summary.SkippedMissingRefs)
	})

	t.Run("duplicate inserts are dropped by the store", func(t *testing.T) {
		f := newSyncFixture(t, notifier.Config{})
		sub := f.addSubscription(t, 5*day, domain.SubscriptionStatusActive)

		// Конкурирующий проход успел записать уведомление для этой подписки
		relatedID := sub.ID
		inserted, err := f.notificationRepo.CreateBatch(ctx, []domain.Notification{{
			ID:        uuid.New(),
			Type:      domain.NotificationTypeExpiringSoon,
			RelatedID: &relatedID,
		}})
		require.NoError(t, err)
		require.Equal(t, 1, inserted)

		summary, err := f.svc.RunPass(ctx)
		require.NoError(t, err)

		assert.Zero(t, summary.NotificationsCreated)
	})

	t.Run("expired window suppresses stale subscriptions", func(t *testing.T) {
		f := newSyncFixture(t, notifier.Config{ExpiredWindowDays: 30})
		stale := f.addSubscription(t, -45*day, domain.SubscriptionStatusActive)

		summary, err := f.svc.RunPass(ctx)
		require.NoError(t, err)

		assert.Zero(t, summary.NotificationsCreated)
		assert.Zero(t, summary.SubscriptionsUpdated)

		// Подписка осталась активной: окно исключило ее из правила expired
		kept, err := f.subscriptionRepo.GetByID(ctx, stale.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionStatusActive, kept.Status)
	})
}
