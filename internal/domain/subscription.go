package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus статус подписки
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription представляет собой модель подписки
type Subscription struct {
	ID         uuid.UUID          `json:"id"`
	CustomerID uuid.UUID          `json:"customer_id"`
	PlatformID uuid.UUID          `json:"platform_id"`
	Type       string             `json:"type"`
	StartDate  time.Time          `json:"start_date"`
	ExpiryDate time.Time          `json:"expiry_date"`
	Cost       float64            `json:"cost"`
	Status     SubscriptionStatus `json:"status"`
	Notes      string             `json:"notes,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// SubscriptionRequest представляет запрос на создание или обновление подписки
type SubscriptionRequest struct {
	CustomerID string    `json:"customer_id" binding:"required"`
	PlatformID string    `json:"platform_id" binding:"required"`
	Type       string    `json:"type" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	ExpiryDate time.Time `json:"expiry_date" binding:"required"`
	Cost       float64   `json:"cost" binding:"min=0"`
	Status     string    `json:"status" binding:"required,oneof=active expired pending cancelled"`
	Notes      string    `json:"notes,omitempty"`
}

// StatusUpdate описывает переход статуса подписки, запланированный движком уведомлений
type StatusUpdate struct {
	SubscriptionID uuid.UUID          `json:"subscription_id"`
	NewStatus      SubscriptionStatus `json:"new_status"`
}
