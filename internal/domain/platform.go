package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlatformType тип платформы
type PlatformType string

const (
	PlatformTypeSubscription PlatformType = "subscription"
	PlatformTypeGiftCard     PlatformType = "gift_card"
)

// Platform представляет собой модель платформы (сервиса подписки)
type Platform struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Type        PlatformType `json:"type"`
	Description string       `json:"description,omitempty"`
	Logo        string       `json:"logo,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PlatformRequest представляет запрос на создание или обновление платформы
type PlatformRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=subscription gift_card"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}
