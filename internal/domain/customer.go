package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer представляет собой модель клиента
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerRequest представляет запрос на создание или обновление клиента
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
