package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType тип уведомления
type NotificationType string

const (
	NotificationTypeExpiringSoon NotificationType = "expiring_soon"
	NotificationTypeExpired      NotificationType = "expired"
	NotificationTypePaymentDue   NotificationType = "payment_due"
)

// Notification представляет собой модель уведомления
type Notification struct {
	ID      uuid.UUID        `json:"id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	// Date момент актуальности уведомления, не момент создания
	Date      time.Time  `json:"date"`
	Read      bool       `json:"read"`
	RelatedID *uuid.UUID `json:"related_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// DedupKey возвращает ключ дедупликации уведомления.
// Пара (type, related_id) уникальна на всем времени жизни уведомлений подписки.
func (n Notification) DedupKey() NotificationKey {
	key := NotificationKey{Type: n.Type}
	if n.RelatedID != nil {
		key.RelatedID = *n.RelatedID
	}
	return key
}

// NotificationKey ключ дедупликации (type, related_id)
type NotificationKey struct {
	Type      NotificationType
	RelatedID uuid.UUID
}
