package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haidt/agent-engine/internal/broadcast"
	"github.com/haidt/agent-engine/internal/engine"
)

// StatusHandler serves service-level counters
type StatusHandler struct {
	logger    *slog.Logger
	scheduler *engine.Scheduler
	hub       *broadcast.Hub
}

// NewStatusHandler creates a new StatusHandler instance
func NewStatusHandler(deps *Dependencies) *StatusHandler {
	return &StatusHandler{
		logger:    deps.Logger,
		scheduler: deps.Scheduler,
		hub:       deps.Hub,
	}
}

// GetStatus handles GET /api/v1/status
// Reads counters directly rather than queueing a server_status job
func (h *StatusHandler) GetStatus(c *gin.Context) {
	counters := h.scheduler.Status()

	c.JSON(http.StatusOK, gin.H{
		"status":         "running",
		"jobs_total":     counters.Total,
		"jobs_pending":   counters.Pending,
		"jobs_running":   counters.Running,
		"jobs_completed": counters.Completed,
		"jobs_failed":    counters.Failed,
		"subscribers":    h.hub.Count(),
		"uptime_seconds": counters.UptimeSec,
	})
}
