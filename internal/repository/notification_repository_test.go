package repository

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

func newTestNotificationRepo() *InMemoryNotificationRepository {
	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)
	return NewInMemoryNotificationRepository(log)
}

func expiringSoonFor(subscriptionID uuid.UUID) domain.Notification {
	return domain.Notification{
		ID:        uuid.New(),
		Type:      domain.NotificationTypeExpiringSoon,
		Title:     "Subscription Expiring Soon",
		RelatedID: &subscriptionID,
	}
}

func TestInMemoryNotificationRepositoryCreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts distinct keys", func(t *testing.T) {
		repo := newTestNotificationRepo()

		inserted, err := repo.CreateBatch(ctx, []domain.Notification{
			expiringSoonFor(uuid.New()),
			expiringSoonFor(uuid.New()),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, inserted)
	})

	t.Run("drops duplicates by type and related id", func(t *testing.T) {
		repo := newTestNotificationRepo()
		subscriptionID := uuid.New()

		inserted, err := repo.CreateBatch(ctx, []domain.Notification{expiringSoonFor(subscriptionID)})
		require.NoError(t, err)
		require.Equal(t, 1, inserted)

		inserted, err = repo.CreateBatch(ctx, []domain.Notification{expiringSoonFor(subscriptionID)})
		require.NoError(t, err)
		assert.Zero(t, inserted)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("same subscription may carry different types", func(t *testing.T) {
		repo := newTestNotificationRepo()
		subscriptionID := uuid.New()

		expired := expiringSoonFor(subscriptionID)
		expired.ID = uuid.New()
		expired.Type = domain.NotificationTypeExpired

		inserted, err := repo.CreateBatch(ctx, []domain.Notification{
			expiringSoonFor(subscriptionID),
			expired,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, inserted)
	})

	t.Run("nil related id is never deduplicated", func(t *testing.T) {
		repo := newTestNotificationRepo()

		system := domain.Notification{ID: uuid.New(), Type: domain.NotificationTypePaymentDue}
		inserted, err := repo.CreateBatch(ctx, []domain.Notification{system})
		require.NoError(t, err)
		require.Equal(t, 1, inserted)

		another := domain.Notification{ID: uuid.New(), Type: domain.NotificationTypePaymentDue}
		inserted, err = repo.CreateBatch(ctx, []domain.Notification{another})
		require.NoError(t, err)
		assert.Equal(t, 1, inserted)
	})

	t.Run("delete releases the key for reuse", func(t *testing.T) {
		repo := newTestNotificationRepo()
		subscriptionID := uuid.New()

		first := expiringSoonFor(subscriptionID)
		_, err := repo.CreateBatch(ctx, []domain.Notification{first})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, first.ID))

		inserted, err := repo.CreateBatch(ctx, []domain.Notification{expiringSoonFor(subscriptionID)})
		require.NoError(t, err)
		assert.Equal(t, 1, inserted)
	})
}

func TestInMemoryNotificationRepositoryReadState(t *testing.T) {
	ctx := context.Background()
	repo := newTestNotificationRepo()

	first := expiringSoonFor(uuid.New())
	second := expiringSoonFor(uuid.New())
	_, err := repo.CreateBatch(ctx, []domain.Notification{first, second})
	require.NoError(t, err)

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, repo.MarkRead(ctx, first.ID))

	unread, err = repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	require.NoError(t, repo.MarkAllRead(ctx))

	unread, err = repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, uuid.New()), ErrNotFound)
}
