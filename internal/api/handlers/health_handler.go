package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	status := "healthy"
	database := "healthy"
	statusCode := http.StatusOK

	if reason := h.pingDatabase(c.Request().Context()); reason != "" {
		status = "unhealthy"
		database = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, HealthResponse{
		Status:   status,
		Services: map[string]string{"database": database},
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	if reason := h.pingDatabase(c.Request().Context()); reason != "" {
		return c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status: "not ready",
			Reason: reason,
		})
	}

	return c.JSON(http.StatusOK, ReadyResponse{Status: "ready"})
}

// pingDatabase returns an empty string when the database answers a ping
func (h *HealthHandler) pingDatabase(ctx context.Context) string {
	if h.db == nil {
		return "database not configured"
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return "database connection failed"
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return "database ping failed"
	}
	return ""
}
