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

// PlatformHandler обработчик для платформ
type PlatformHandler struct {
	service service.PlatformService
	log     *logger.Logger
}

// NewPlatformHandler создает новый обработчик платформ
func NewPlatformHandler(platformService service.PlatformService, log *logger.Logger) *PlatformHandler {
	return &PlatformHandler{
		service: platformService,
		log:     log,
	}
}

// GetPlatforms возвращает список всех платформ
func (h *PlatformHandler) GetPlatforms(c *gin.Context) {
	platforms, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get platforms: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get platforms"})
		return
	}

	c.JSON(http.StatusOK, platforms)
}

// GetPlatform возвращает платформу по ID
func (h *PlatformHandler) GetPlatform(c *gin.Context) {
	id := c.Param("id")

	platform, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid platform ID format"})
			return
		}

		h.log.Error("Failed to get platform: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get platform"})
		return
	}

	c.JSON(http.StatusOK, platform)
}

// CreatePlatform создает новую платформу
func (h *PlatformHandler) CreatePlatform(c *gin.Context) {
	var req domain.PlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to create platform: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create platform"})
		return
	}

	c.JSON(http.StatusCreated, platform)
}

// UpdatePlatform обновляет существующую платформу
func (h *PlatformHandler) UpdatePlatform(c *gin.Context) {
	id := c.Param("id")

	var req domain.PlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid platform ID format"})
			return
		}

		h.log.Error("Failed to update platform: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update platform"})
		return
	}

	c.JSON(http.StatusOK, platform)
}

// DeletePlatform удаляет платформу
func (h *PlatformHandler) DeletePlatform(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
			return
		}

		if errors.Is(err, repository.ErrInvalidData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid platform ID format"})
			return
		}

		if errors.Is(err, repository.ErrInvalidOperation) {
			c.JSON(http.StatusConflict, gin.H{"error": "Platform has subscriptions and cannot be deleted"})
			return
		}

		h.log.Error("Failed to delete platform: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete platform"})
		return
	}

	c.Status(http.StatusNoContent)
}
