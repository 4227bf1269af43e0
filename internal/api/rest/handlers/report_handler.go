package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// ReportHandler обработчик CSV-отчетов
type ReportHandler struct {
	service service.ReportService
	log     *logger.Logger
}

// NewReportHandler создает новый обработчик отчетов
func NewReportHandler(reportService service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: reportService,
		log:     log,
	}
}

// ExportSubscriptions отдает CSV-отчет по подпискам
func (h *ReportHandler) ExportSubscriptions(c *gin.Context) {
	data, err := h.service.SubscriptionsCSV(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build subscriptions report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build subscriptions report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="subscriptions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportCustomers отдает CSV-отчет по клиентам
func (h *ReportHandler) ExportCustomers(c *gin.Context) {
	data, err := h.service.CustomersCSV(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build customers report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build customers report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="customers.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
