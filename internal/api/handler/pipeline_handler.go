package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haidt/agent-engine/internal/api/dto"
	"github.com/haidt/agent-engine/internal/pipeline"
	"github.com/haidt/agent-engine/internal/registry"
	"github.com/haidt/agent-engine/internal/store"
)

// defaultAgentSlug is used when a pipeline run names no agent
const defaultAgentSlug = "research"

// PipelineHandler handles synchronous pipeline runs and record lookups
type PipelineHandler struct {
	logger   *slog.Logger
	driver   *pipeline.Driver
	registry *registry.Registry
	store    store.Store
}

// NewPipelineHandler creates a new PipelineHandler instance
func NewPipelineHandler(deps *Dependencies) *PipelineHandler {
	return &PipelineHandler{
		logger:   deps.Logger,
		driver:   deps.Driver,
		registry: deps.Registry,
		store:    deps.Store,
	}
}

// RunPipeline handles POST /api/v1/pipeline/run
// Runs the three-stage pipeline synchronously and returns the record id
// and the final text
func (h *PipelineHandler) RunPipeline(c *gin.Context) {
	var req dto.PipelineRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	slug := req.Agent
	if slug == "" {
		slug = defaultAgentSlug
	}

	prompts := registry.TemplateFor(slug).Prompts
	if agent, err := h.registry.Get(c.Request.Context(), slug); err == nil {
		prompts = agent.Prompts
	}

	recordID, final, err := h.driver.Run(c.Request.Context(), req.Input, pipeline.Prompts{
		Plan:    prompts.Plan,
		Execute: prompts.Execute,
		Refine:  prompts.Refine,
	})
	if err != nil {
		h.logger.Error("Pipeline run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to run pipeline",
		})
		return
	}

	c.JSON(http.StatusOK, dto.PipelineRunResponse{
		RecordID: recordID,
		Final:    final,
	})
}

// GetRecord handles GET /api/v1/records/:record_id
// Returns a persisted pipeline record
func (h *PipelineHandler) GetRecord(c *gin.Context) {
	recordID := c.Param("record_id")

	record, err := pipeline.GetRecord(c.Request.Context(), h.store, recordID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Record not found",
			})
			return
		}
		h.logger.Error("Failed to get record", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get record",
		})
		return
	}

	c.JSON(http.StatusOK, record)
}
