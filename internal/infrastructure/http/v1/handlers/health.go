package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stokpanel/internal/netstatus"
)

// Pinger checks connectivity of one backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db      Pinger
	redis   Pinger
	monitor netstatus.Monitor
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db, redis Pinger, monitor netstatus.Monitor) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, monitor: monitor}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	checks := map[string]string{
		"database": "healthy",
		"redis":    "healthy",
	}
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		healthy = false
	}
	if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = "unhealthy: " + err.Error()
		healthy = false
	}

	status := http.StatusOK
	body := gin.H{
		"status": "ok",
		"online": h.monitor.Online(),
		"checks": checks,
	}
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "error"
	}
	c.JSON(status, body)
}
