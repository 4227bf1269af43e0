package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// Таймаут одного фонового прохода
const passTimeout = 2 * time.Minute

// Scheduler запускает проход генерации уведомлений по cron-расписанию.
// Фоновый запуск и HTTP-триггер не исключают друг друга: от дубликатов
// защищает ограничение уникальности на стороне хранилища.
type Scheduler struct {
	cron *cron.Cron
	sync service.SyncService
	log  *logger.Logger
}

// New создает новый планировщик
func New(syncService service.SyncService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		sync: syncService,
		log:  log,
	}
}

// Start регистрирует задачу и запускает планировщик
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.runPass)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Infow("Notification scheduler started", "schedule", schedule)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущей задачи
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Infow("Notification scheduler stopped")
}

func (s *Scheduler) runPass() {
	ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
	defer cancel()

	summary, err := s.sync.RunPass(ctx)
	if err != nil {
		// Ошибка не фатальна: следующий запуск доделает оставшееся
		s.log.Errorw("Scheduled sync pass failed", "error", err)
		return
	}

	s.log.Infow("Scheduled sync pass finished",
		"notificationsCreated", summary.NotificationsCreated,
		"subscriptionsUpdated", summary.SubscriptionsUpdated,
		"skippedMissingRefs", summary.SkippedMissingRefs,
	)
}
