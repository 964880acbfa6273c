package handler

import (
	"context"
	"time"

	"medquest/internal/domain"
	"medquest/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache domain.Cache
}

func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check reports database and cache reachability.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{"status": "ok", "database": "ok", "cache": "ok"}
	code := fiber.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		logger.Get().Error("Database health check failed", zap.Error(err))
		status["database"] = "unavailable"
		status["status"] = "degraded"
		code = fiber.StatusServiceUnavailable
	}
	if h.cache == nil {
		status["cache"] = "disabled"
	} else if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Error("Cache health check failed", zap.Error(err))
		status["cache"] = "unavailable"
		status["status"] = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(status)
}
