package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// NotificationHandler обработчик для уведомлений.
// Только чтение и пометка прочитанными: генерация уведомлений идет
// через SyncHandler.
type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

// NewNotificationHandler создает новый обработчик уведомлений
func NewNotificationHandler(notificationService service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: notificationService,
		log:     log,
	}
}

// GetNotifications возвращает список всех уведомлений
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount возвращает число непрочитанных уведомлений
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.service.CountUnread(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to count unread notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead помечает уведомление прочитанным
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
			return
		}

		h.log.Error("Failed to mark notification read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead помечает все уведомления прочитанными
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context()); err != nil {
		h.log.Error("Failed to mark all notifications read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark all notifications read"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteNotification удаляет уведомление
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
			return
		}

		h.log.Error("Failed to delete notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
