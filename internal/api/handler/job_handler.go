package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haidt/agent-engine/internal/api/dto"
	"github.com/haidt/agent-engine/internal/engine"
)

// logPollInterval is how often the SSE stream checks a job for new lines
const logPollInterval = 200 * time.Millisecond

// JobHandler handles command submission and job lookups
type JobHandler struct {
	logger    *slog.Logger
	scheduler *engine.Scheduler
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:    deps.Logger,
		scheduler: deps.Scheduler,
	}
}

// SubmitCommand handles POST /api/v1/commands
// Accepts an operation for background execution and returns immediately
func (h *JobHandler) SubmitCommand(c *gin.Context) {
	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	snapshot := h.scheduler.Submit(engine.Operation(req.Operation), req.Params)

	c.JSON(http.StatusAccepted, dto.CommandResponse{
		JobID:  snapshot.ID,
		Status: string(snapshot.Status),
	})
}

// GetJob handles GET /api/v1/jobs/:job_id
// Returns the job's current snapshot
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	snapshot, err := h.scheduler.Get(jobID)
	if err != nil {
		if errors.Is(err, engine.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// StreamLogs handles GET /api/v1/jobs/:job_id/logs
// Streams the job's log lines as server-sent events until the job reaches
// a terminal state or the client disconnects
func (h *JobHandler) StreamLogs(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := h.scheduler.Get(jobID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Job not found",
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	sent := 0
	ticker := time.NewTicker(logPollInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ticker.C:
		}

		snapshot, err := h.scheduler.Get(jobID)
		if err != nil {
			return false
		}

		for ; sent < len(snapshot.Logs); sent++ {
			fmt.Fprintf(w, "data: %s\n\n", snapshot.Logs[sent])
		}

		if snapshot.Status.Terminal() {
			fmt.Fprintf(w, "event: done\ndata: %s\n\n", snapshot.Status)
			return false
		}
		return true
	})
}
