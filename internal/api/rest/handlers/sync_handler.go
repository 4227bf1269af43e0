package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// SyncHandler обработчик ручного запуска генерации уведомлений
type SyncHandler struct {
	service service.SyncService
	log     *logger.Logger
}

// NewSyncHandler создает новый обработчик синхронизации
func NewSyncHandler(syncService service.SyncService, log *logger.Logger) *SyncHandler {
	return &SyncHandler{
		service: syncService,
		log:     log,
	}
}

// GenerateNotifications запускает один проход генерации уведомлений.
// Проход идемпотентен: повторный вызов без изменения данных вернет нули.
func (h *SyncHandler) GenerateNotifications(c *gin.Context) {
	summary, err := h.service.RunPass(c.Request.Context())
	if err != nil {
		h.log.Error("Notification sync pass failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"notificationsCreated": summary.NotificationsCreated,
		"subscriptionsUpdated": summary.SubscriptionsUpdated,
		"skippedMissingRefs":   summary.SkippedMissingRefs,
	})
}
