package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/internal/kafka"
	"github.com/Dhoini/Subscription-dashboard/internal/metrics"
	"github.com/Dhoini/Subscription-dashboard/internal/notifier"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// PassSummary итог одного прохода генерации уведомлений.
// Счетчики отражают реально записанные строки, а не запланированные движком:
// при конкурирующем проходе часть вставок может быть отброшена ограничением
// уникальности (type, related_id).
type PassSummary struct {
	NotificationsCreated int `json:"notificationsCreated"`
	SubscriptionsUpdated int `json:"subscriptionsUpdated"`
	SkippedMissingRefs   int `json:"skippedMissingRefs"`
}

// SyncService интерфейс оркестратора генерации уведомлений.
// Единственная точка, из которой движок читает и пишет хранилище:
// UI-слой только читает уже сгенерированные уведомления.
type SyncService interface {
	RunPass(ctx context.Context) (PassSummary, error)
}

type syncService struct {
	subscriptionRepo SubscriptionRepository
	customerRepo     CustomerRepository
	platformRepo     PlatformRepository
	notificationRepo repository.NotificationRepository
	engineCfg        notifier.Config
	producer         kafka.Producer
	metrics          metrics.SyncMetrics
	log              *logger.Logger
	now              func() time.Time
}

// NewSyncService создает новый оркестратор генерации уведомлений
func NewSyncService(
	subscriptionRepo SubscriptionRepository,
	customerRepo CustomerRepository,
	platformRepo PlatformRepository,
	notificationRepo repository.NotificationRepository,
	engineCfg notifier.Config,
	producer kafka.Producer,
	syncMetrics metrics.SyncMetrics,
	log *logger.Logger,
) SyncService {
	return &syncService{
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		platformRepo:     platformRepo,
		notificationRepo: notificationRepo,
		engineCfg:        engineCfg,
		producer:         producer,
		metrics:          syncMetrics,
		log:              log,
		now:              time.Now,
	}
}

// RunPass выполняет один проход: читает снапшот, прогоняет движок,
// записывает новые уведомления и переходы статусов.
//
// Проход не атомарен: вставка уведомлений и обновление статусов — независимые
// пакеты записи. Частично примененный проход безопасен, потому что каждая
// запись идемпотентна: повторный успешный проход доделает оставшееся.
// От дубликатов при конкурирующих проходах защищает ограничение уникальности
// (type, related_id) на стороне хранилища, а не блокировка.
func (s *syncService) RunPass(ctx context.Context) (PassSummary, error) {
	started := s.now()
	s.log.Debug("Starting notification sync pass")

	snapshot, err := s.readSnapshot(ctx)
	if err != nil {
		s.failPass(started)
		return PassSummary{}, err
	}

	result := notifier.Evaluate(snapshot, s.engineCfg)

	summary := PassSummary{SkippedMissingRefs: result.SkippedMissingRefs}
	if result.SkippedMissingRefs > 0 {
		s.log.Warn("Skipped %d subscriptions with dangling customer/platform references", result.SkippedMissingRefs)
		s.metrics.AddSkippedMissingRefs(result.SkippedMissingRefs)
	}

	inserted, err := s.notificationRepo.CreateBatch(ctx, result.Notifications)
	summary.NotificationsCreated = inserted
	if err != nil {
		s.log.Error("Failed to insert notifications: %v", err)
		s.failPass(started)
		return summary, fmt.Errorf("notification insert failed: %w", err)
	}

	if inserted < len(result.Notifications) {
		// Конкурирующий проход успел записать часть пар (type, related_id)
		s.log.Warn("Dropped %d duplicate notifications on insert", len(result.Notifications)-inserted)
	}

	updated, err := s.subscriptionRepo.UpdateStatusBatch(ctx, result.StatusUpdates)
	summary.SubscriptionsUpdated = updated
	if err != nil {
		s.log.Error("Failed to update subscription statuses: %v", err)
		s.failPass(started)
		return summary, fmt.Errorf("subscription status update failed: %w", err)
	}

	s.recordPass(result, summary)
	s.publishEvents(ctx, result, summary)

	s.metrics.IncPass("success")
	s.metrics.ObservePassDuration(s.now().Sub(started).Seconds())

	s.log.Info("Sync pass finished: %d notifications created, %d subscriptions updated, %d skipped",
		summary.NotificationsCreated, summary.SubscriptionsUpdated, summary.SkippedMissingRefs)
	return summary, nil
}

// readSnapshot читает согласованный срез данных для одного прохода.
// Набор существующих уведомлений фиксируется до любых записей.
func (s *syncService) readSnapshot(ctx context.Context) (notifier.Snapshot, error) {
	activeSubscriptions, err := s.subscriptionRepo.GetByStatus(ctx, domain.SubscriptionStatusActive)
	if err != nil {
		return notifier.Snapshot{}, fmt.Errorf("failed to read active subscriptions: %w", err)
	}

	notifications, err := s.notificationRepo.GetAll(ctx)
	if err != nil {
		return notifier.Snapshot{}, fmt.Errorf("failed to read notifications: %w", err)
	}

	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		return notifier.Snapshot{}, fmt.Errorf("failed to read customers: %w", err)
	}

	platforms, err := s.platformRepo.GetAll(ctx)
	if err != nil {
		return notifier.Snapshot{}, fmt.Errorf("failed to read platforms: %w", err)
	}

	customersByID := make(map[uuid.UUID]domain.Customer, len(customers))
	for _, customer := range customers {
		customersByID[customer.ID] = customer
	}

	platformsByID := make(map[uuid.UUID]domain.Platform, len(platforms))
	for _, platform := range platforms {
		platformsByID[platform.ID] = platform
	}

	return notifier.Snapshot{
		Now:           s.now(),
		Subscriptions: activeSubscriptions,
		Customers:     customersByID,
		Platforms:     platformsByID,
		Notifications: notifications,
	}, nil
}

func (s *syncService) recordPass(result notifier.Result, summary PassSummary) {
	if summary.NotificationsCreated > 0 {
		byType := make(map[domain.NotificationType]int)
		for _, notification := range result.Notifications {
			byType[notification.Type]++
		}
		for notificationType, count := range byType {
			s.metrics.AddNotificationsCreated(string(notificationType), count)
		}
	}

	if summary.SubscriptionsUpdated > 0 {
		s.metrics.AddSubscriptionsExpired(summary.SubscriptionsUpdated)
	}
}

// publishEvents публикует события прохода best-effort: ошибка Kafka
// не делает проход неуспешным
func (s *syncService) publishEvents(ctx context.Context, result notifier.Result, summary PassSummary) {
	for _, update := range result.StatusUpdates {
		if err := s.producer.PublishSubscriptionExpired(ctx, update); err != nil {
			s.log.Warn("Failed to publish subscription expired event: %v", err)
		}
	}

	if summary.NotificationsCreated == 0 && summary.SubscriptionsUpdated == 0 {
		return
	}

	event := kafka.NotificationsGeneratedEvent{
		NotificationsCreated: summary.NotificationsCreated,
		SubscriptionsUpdated: summary.SubscriptionsUpdated,
		SkippedMissingRefs:   summary.SkippedMissingRefs,
	}
	if err := s.producer.PublishNotificationsGenerated(ctx, event); err != nil {
		s.log.Warn("Failed to publish pass summary event: %v", err)
	}
}

func (s *syncService) failPass(started time.Time) {
	s.metrics.IncPass("failure")
	s.metrics.ObservePassDuration(s.now().Sub(started).Seconds())
}
