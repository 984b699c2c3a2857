package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/models"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store Pinger
}

func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

// Root handles GET /
func (hc *HealthController) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "this is lead management api"})
}

// Health handles GET /health
func (hc *HealthController) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := hc.store.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unhealthy", Database: "disconnected"})
	}
	return c.JSON(http.StatusOK, models.HealthResponse{Status: "healthy", Database: "connected"})
}
