package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// DashboardHandler обработчик сводки дашборда
type DashboardHandler struct {
	service service.DashboardService
	log     *logger.Logger
}

// NewDashboardHandler создает новый обработчик дашборда
func NewDashboardHandler(dashboardService service.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: dashboardService,
		log:     log,
	}
}

// GetSummary возвращает сводку для главной страницы дашборда
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build dashboard summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
