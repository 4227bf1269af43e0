package notifier_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/internal/notifier"
)

type fixture struct {
	now       time.Time
	customer  domain.Customer
	platform  domain.Platform
	subscriptions []domain.Subscription
}

func newFixture() *fixture {
	return &fixture{
		now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		customer: domain.Customer{
			ID:    uuid.New(),
			Name:  "Alice",
			Email: "alice@example.com",
		},
		platform: domain.Platform{
			ID:   uuid.New(),
			Name: "Netflix",
			Type: domain.PlatformTypeSubscription,
		},
	}
}

func (f *fixture) subscription(expiresIn time.Duration, status domain.SubscriptionStatus) domain.Subscription {
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
	f.subscriptions = append(f.subscriptions, sub)
	return sub
}

func (f *fixture) snapshot(existing ...domain.Notification) notifier.Snapshot {
	return notifier.Snapshot{
		Now:           f.now,
		Subscriptions: f.subscriptions,
		Customers:     map[uuid.UUID]domain.Customer{f.customer.ID: f.customer},
		Platforms:     map[uuid.UUID]domain.Platform{f.platform.ID: f.platform},
		Notifications: existing,
	}
}

const day = 24 * time.Hour

func TestEvaluateExpiringSoon(t *testing.T) {
	t.Run("within horizon", func(t *testing.T) {
		f := newFixture()
		sub := f.subscription(5*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		require.Len(t, result.Notifications, 1)
		assert.Empty(t, result.StatusUpdates)

		n := result.Notifications[0]
		assert.Equal(t, domain.NotificationTypeExpiringSoon, n.Type)
		assert.Equal(t, "Subscription Expiring Soon", n.Title)
		assert.Equal(t, "Alice's Netflix subscription expires on 6/20/2025", n.Message)
		assert.Equal(t, f.now, n.Date)
		assert.False(t, n.Read)
		require.NotNil(t, n.RelatedID)
		assert.Equal(t, sub.ID, *n.RelatedID)
	})

	t.Run("expires later today counts as day zero", func(t *testing.T) {
		f := newFixture()
		f.subscription(6*time.Hour, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		require.Len(t, result.Notifications, 1)
		assert.Equal(t, domain.NotificationTypeExpiringSoon, result.Notifications[0].Type)
		assert.Empty(t, result.StatusUpdates)
	})

	t.Run("beyond horizon produces nothing", func(t *testing.T) {
		f := newFixture()
		f.subscription(10*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		assert.Empty(t, result.Notifications)
		assert.Empty(t, result.StatusUpdates)
	})

	t.Run("custom horizon widens the rule", func(t *testing.T) {
		f := newFixture()
		f.subscription(10*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{ExpiringSoonDays: 14})

		require.Len(t, result.Notifications, 1)
		assert.Equal(t, domain.NotificationTypeExpiringSoon, result.Notifications[0].Type)
	})

	t.Run("existing notification suppresses a duplicate", func(t *testing.T) {
		f := newFixture()
		sub := f.subscription(5*day, domain.SubscriptionStatusActive)

		relatedID := sub.ID
		existing := domain.Notification{
			ID:        uuid.New(),
			Type:      domain.NotificationTypeExpiringSoon,
			RelatedID: &relatedID,
		}

		result := notifier.Evaluate(f.snapshot(existing), notifier.Config{})

		assert.Empty(t, result.Notifications)
	})
}

func TestEvaluateExpired(t *testing.T) {
	t.Run("past expiry emits notification and status update", func(t *testing.T) {
		f := newFixture()
		sub := f.subscription(-10*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		require.Len(t, result.Notifications, 1)
		require.Len(t, result.StatusUpdates, 1)

		n := result.Notifications[0]
		assert.Equal(t, domain.NotificationTypeExpired, n.Type)
		assert.Equal(t, "Subscription Expired", n.Title)
		assert.Equal(t, "Alice's Netflix subscription has expired on 6/5/2025", n.Message)
		// Дата уведомления равна дате истечения, а не моменту прохода
		assert.Equal(t, sub.ExpiryDate, n.Date)

		update := result.StatusUpdates[0]
		assert.Equal(t, sub.ID, update.SubscriptionID)
		assert.Equal(t, domain.SubscriptionStatusExpired, update.NewStatus)
	})

	t.Run("existing notification still suppresses but keeps the status update", func(t *testing.T) {
		f := newFixture()
		sub := f.subscription(-10*day, domain.SubscriptionStatusActive)

		relatedID := sub.ID
		existing := domain.Notification{
			ID:        uuid.New(),
			Type:      domain.NotificationTypeExpired,
			RelatedID: &relatedID,
		}

		result := notifier.Evaluate(f.snapshot(existing), notifier.Config{})

		assert.Empty(t, result.Notifications)
		assert.Empty(t, result.StatusUpdates)
	})

	t.Run("window suppresses long-expired subscriptions", func(t *testing.T) {
		f := newFixture()
		f.subscription(-45*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{ExpiredWindowDays: 30})

		assert.Empty(t, result.Notifications)
		assert.Empty(t, result.StatusUpdates)
	})

	t.Run("window keeps recently expired subscriptions", func(t *testing.T) {
		f := newFixture()
		f.subscription(-10*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{ExpiredWindowDays: 30})

		assert.Len(t, result.Notifications, 1)
		assert.Len(t, result.StatusUpdates, 1)
	})

	t.Run("zero window means unbounded", func(t *testing.T) {
		f := newFixture()
		f.subscription(-400*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		assert.Len(t, result.Notifications, 1)
		assert.Len(t, result.StatusUpdates, 1)
	})
}

func TestEvaluateScope(t *testing.T) {
	t.Run("non-active subscriptions are ignored", func(t *testing.T) {
		f := newFixture()
		f.subscription(-10*day, domain.SubscriptionStatusExpired)
		f.subscription(5*day, domain.SubscriptionStatusCancelled)
		f.subscription(5*day, domain.SubscriptionStatusPending)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		assert.Empty(t, result.Notifications)
		assert.Empty(t, result.StatusUpdates)
		assert.Zero(t, result.SkippedMissingRefs)
	})

	t.Run("dangling references are skipped and counted", func(t *testing.T) {
		f := newFixture()
		f.subscription(5*day, domain.SubscriptionStatusActive)

		orphan := domain.Subscription{
			ID:         uuid.New(),
			CustomerID: uuid.New(), // такого клиента нет в снапшоте
			PlatformID: f.platform.ID,
			ExpiryDate: f.now.Add(5 * day),
			Status:     domain.SubscriptionStatusActive,
		}
		f.subscriptions = append(f.subscriptions, orphan)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		assert.Len(t, result.Notifications, 1)
		assert.Equal(t, 1, result.SkippedMissingRefs)
	})

	t.Run("subscription matches at most one rule", func(t *testing.T) {
		f := newFixture()
		f.subscription(-1*day, domain.SubscriptionStatusActive)

		result := notifier.Evaluate(f.snapshot(), notifier.Config{})

		require.Len(t, result.Notifications, 1)
		assert.Equal(t, domain.NotificationTypeExpired, result.Notifications[0].Type)
	})
}

func TestEvaluateIdempotence(t *testing.T) {
	f := newFixture()
	f.subscription(5*day, domain.SubscriptionStatusActive)
	f.subscription(-10*day, domain.SubscriptionStatusActive)

	first := notifier.Evaluate(f.snapshot(), notifier.Config{})
	require.Len(t, first.Notifications, 2)
	require.Len(t, first.StatusUpdates, 1)

	// Применяем результат первого прохода к снапшоту: уведомления записаны,
	// истекшая подписка переведена в expired
	expired := make(map[uuid.UUID]struct{}, len(first.StatusUpdates))
	for _, update := range first.StatusUpdates {
		expired[update.SubscriptionID] = struct{}{}
	}
	for i := range f.subscriptions {
		if _, ok := expired[f.subscriptions[i].ID]; ok {
			f.subscriptions[i].Status = domain.SubscriptionStatusExpired
		}
	}

	second := notifier.Evaluate(f.snapshot(first.Notifications...), notifier.Config{})

	assert.Empty(t, second.Notifications)
	assert.Empty(t, second.StatusUpdates)
}
