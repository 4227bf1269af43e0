package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/internal/repository"
	"github.com/Dhoini/Subscription-dashboard/internal/service"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// CustomerHandler обработчик для клиентов
type CustomerHandler struct {
	service             service.CustomerService
	subscriptionService service.SubscriptionService
	log                 *logger.Logger
}

// NewCustomerHandler создает новый обработчик клиентов
func NewCustomerHandler(customerService service.CustomerService, subscriptionService service.SubscriptionService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service:             customerService,
		subscriptionService: subscriptionService,
		log:                 log,
	}
}

// GetCustomers возвращает список всех клиентов
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	customers, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customers"})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer возвращает клиента по ID
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id := c.Param("id")

	customer, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
			return
		}

		h.log.Error("Failed to get customer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetCustomerSubscriptions возвращает подписки клиента
func (h *CustomerHandler) GetCustomerSubscriptions(c *gin.Context) {
	id := c.Param("id")

	subscriptions, err := h.subscriptionService.GetByCustomerID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
			return
		}

		h.log.Error("Failed to get customer subscriptions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}

// CreateCustomer создает нового клиента
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req domain.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Customer with this email already exists"})
			return
		}

		h.log.Error("Failed to create customer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer обновляет существующего клиента
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	var req domain.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
			return
		}

		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Customer with this email already exists"})
			return
		}

		h.log.Error("Failed to update customer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer удаляет клиента
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
			return
		}

		if errors.Is(err, repository.ErrInvalidOperation) {
			c.JSON(http.StatusConflict, gin.H{"error": "Customer has subscriptions and cannot be deleted"})
			return
		}

		h.log.Error("Failed to delete customer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}

	c.Status(http.StatusNoContent)
}
