// Package http provides the plain HTTP endpoints of the privileged process:
// root, health, and a stats snapshot. The bridge websocket does everything
// else.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/halogen-browser/halogen/backend/internal/infrastructure/monitoring"
	"github.com/halogen-browser/halogen/backend/internal/session"
	"github.com/halogen-browser/halogen/backend/internal/store"
)

// Handlers holds the HTTP endpoint dependencies.
type Handlers struct {
	store      *store.Store
	controller *session.Controller
	metrics    *monitoring.Metrics
	startTime  time.Time
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(st *store.Store, controller *session.Controller, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		store:      st,
		controller: controller,
		metrics:    metrics,
		startTime:  time.Now(),
	}
}

// Root identifies the service.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "halogen-backend",
		"status":  "running",
	})
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	if h.metrics != nil {
		h.metrics.UpdateUptime()
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// Stats reports a snapshot of the session state the privileged side owns.
func (h *Handlers) Stats(c *gin.Context) {
	perf := h.controller.PerformanceMetrics()
	c.JSON(http.StatusOK, gin.H{
		"state_dir":         h.store.Dir(),
		"ad_blocker_active": h.controller.AdBlockerActive(),
		"performance":       perf,
		"uptime":            time.Since(h.startTime).Seconds(),
	})
}
