package notifier

import (
	"fmt"
	"math"
	"time"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/google/uuid"
)

// Формат даты в тексте уведомления (как toLocaleDateString в веб-клиенте)
const messageDateLayout = "1/2/2006"

// DefaultExpiringSoonDays горизонт правила expiring_soon по умолчанию
const DefaultExpiringSoonDays = 7

// Config параметры правил генерации уведомлений
type Config struct {
	// ExpiringSoonDays горизонт (в днях) правила expiring_soon; 0 означает значение по умолчанию
	ExpiringSoonDays int
	// ExpiredWindowDays окно (в днях) правила expired; 0 означает отсутствие ограничения.
	// Подписки, истекшие раньше окна, считаются уже обработанными и пропускаются.
	ExpiredWindowDays int
}

// Snapshot неизменяемый срез данных, прочитанный в начале прохода
type Snapshot struct {
	Now           time.Time
	Subscriptions []domain.Subscription
	Customers     map[uuid.UUID]domain.Customer
	Platforms     map[uuid.UUID]domain.Platform
	Notifications []domain.Notification
}

// Result результат одного прохода движка
type Result struct {
	Notifications      []domain.Notification
	StatusUpdates      []domain.StatusUpdate
	SkippedMissingRefs int
}

// Evaluate вычисляет новые уведомления и переходы статусов для активных подписок.
// Чистая функция: не читает и не пишет хранилище, не смотрит на текущее время.
// Дедупликация идет по паре (type, related_id) против ВСЕХ существующих уведомлений,
// поэтому повторный вызов над состоянием после записи результатов ничего не порождает.
func Evaluate(snap Snapshot, cfg Config) Result {
	horizon := cfg.ExpiringSoonDays
	if horizon <= 0 {
		horizon = DefaultExpiringSoonDays
	}

	existing := make(map[domain.NotificationKey]struct{}, len(snap.Notifications))
	for _, n := range snap.Notifications {
		if n.RelatedID == nil {
			continue
		}
		existing[n.DedupKey()] = struct{}{}
	}

	var result Result

	for _, sub := range snap.Subscriptions {
		// Движок рассматривает только активные подписки
		if sub.Status != domain.SubscriptionStatusActive {
			continue
		}

		customer, okCustomer := snap.Customers[sub.CustomerID]
		platform, okPlatform := snap.Platforms[sub.PlatformID]
		if !okCustomer || !okPlatform {
			// Висячая ссылка на клиента или платформу: подписку пропускаем,
			// но пропуск считаем для диагностики
			result.SkippedMissingRefs++
			continue
		}

		daysUntilExpiry := daysUntil(snap.Now, sub.ExpiryDate)

		switch {
		case daysUntilExpiry >= 0 && daysUntilExpiry <= horizon:
			key := domain.NotificationKey{Type: domain.NotificationTypeExpiringSoon, RelatedID: sub.ID}
			if _, exists := existing[key]; exists {
				continue
			}
			result.Notifications = append(result.Notifications, newExpiringSoonNotification(sub, customer, platform, snap.Now))

		case daysUntilExpiry < 0:
			if cfg.ExpiredWindowDays > 0 && daysUntilExpiry <= -cfg.ExpiredWindowDays {
				continue
			}
			key := domain.NotificationKey{Type: domain.NotificationTypeExpired, RelatedID: sub.ID}
			if _, exists := existing[key]; exists {
				continue
			}
			result.Notifications = append(result.Notifications, newExpiredNotification(sub, customer, platform, snap.Now))
			result.StatusUpdates = append(result.StatusUpdates, domain.StatusUpdate{
				SubscriptionID: sub.ID,
				NewStatus:      domain.SubscriptionStatusExpired,
			})
		}
	}

	return result
}

// daysUntil возвращает floor((expiry - now) / 24h): дробные дни
// усекаются к более ранней границе дня
func daysUntil(now, expiry time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}

func newExpiringSoonNotification(sub domain.Subscription, customer domain.Customer, platform domain.Platform, now time.Time) domain.Notification {
	relatedID := sub.ID
	return domain.Notification{
		ID:      uuid.New(),
		Type:    domain.NotificationTypeExpiringSoon,
		Title:   "Subscription Expiring Soon",
		Message: fmt.Sprintf("%s's %s subscription expires on %s", customer.Name, platform.Name, sub.ExpiryDate.Format(messageDateLayout)),
		// У expiring_soon дата уведомления — момент прохода
		Date:      now,
		Read:      false,
		RelatedID: &relatedID,
		CreatedAt: now,
	}
}

func newExpiredNotification(sub domain.Subscription, customer domain.Customer, platform domain.Platform, now time.Time) domain.Notification {
	relatedID := sub.ID
	return domain.Notification{
		ID:      uuid.New(),
		Type:    domain.NotificationTypeExpired,
		Title:   "Subscription Expired",
		Message: fmt.Sprintf("%s's %s subscription has expired on %s", customer.Name, platform.Name, sub.ExpiryDate.Format(messageDateLayout)),
		// У expired дата уведомления — дата истечения подписки, не момент прохода
		Date:      sub.ExpiryDate,
		Read:      false,
		RelatedID: &relatedID,
		CreatedAt: now,
	}
}
