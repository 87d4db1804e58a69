package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/pkg/database"
	"github.com/wasin-t/eventbook/pkg/redis"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db      *database.PostgresDB
	redis   *redis.Client
	service string
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client, service, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redisClient,
		service: service,
		version: version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
	})
}

// Ready handles GET /ready. It pings dependencies with a short deadline so
// the probe cannot hang.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
