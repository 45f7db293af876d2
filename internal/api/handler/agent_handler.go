package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haidt/agent-engine/internal/api/dto"
	"github.com/haidt/agent-engine/internal/registry"
)

// AgentHandler handles agent registry CRUD requests
type AgentHandler struct {
	logger   *slog.Logger
	registry *registry.Registry
}

// NewAgentHandler creates a new AgentHandler instance
func NewAgentHandler(deps *Dependencies) *AgentHandler {
	return &AgentHandler{
		logger:   deps.Logger,
		registry: deps.Registry,
	}
}

// ListAgents handles GET /api/v1/agents
func (h *AgentHandler) ListAgents(c *gin.Context) {
	agents := h.registry.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"agents": agents,
		"count":  len(agents),
	})
}

// CreateAgent handles POST /api/v1/agents
// Creates an agent from a template type, with optional overrides
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req dto.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	tpl := registry.TemplateFor(req.Type)
	agent := registry.Agent{
		Name:         req.Name,
		Description:  tpl.Description,
		Prompts:      tpl.Prompts,
		Capabilities: tpl.Capabilities,
	}
	if req.Description != "" {
		agent.Description = req.Description
	}
	if req.Prompts != nil {
		agent.Prompts = registry.Prompts{
			Plan:    req.Prompts.Plan,
			Execute: req.Prompts.Execute,
			Refine:  req.Prompts.Refine,
		}
	}

	created, err := h.registry.Upsert(c.Request.Context(), agent)
	if err != nil {
		if errors.Is(err, registry.ErrSlugRequired) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Agent name must produce a valid slug",
			})
			return
		}
		h.logger.Error("Failed to create agent", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create agent",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetAgent handles GET /api/v1/agents/:slug
func (h *AgentHandler) GetAgent(c *gin.Context) {
	agent, err := h.registry.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, registry.ErrAgentNotFound) || errors.Is(err, registry.ErrSlugRequired) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Agent not found",
			})
			return
		}
		h.logger.Error("Failed to get agent", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get agent",
		})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// UpdateAgent handles PUT /api/v1/agents/:slug
// Applies partial updates; the slug is stable across renames
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	var req dto.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	agent, err := h.registry.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Agent not found",
		})
		return
	}

	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.Description != nil {
		agent.Description = *req.Description
	}
	if req.Prompts != nil {
		agent.Prompts = registry.Prompts{
			Plan:    req.Prompts.Plan,
			Execute: req.Prompts.Execute,
			Refine:  req.Prompts.Refine,
		}
	}

	updated, err := h.registry.Upsert(c.Request.Context(), *agent)
	if err != nil {
		h.logger.Error("Failed to update agent", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update agent",
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteAgent handles DELETE /api/v1/agents/:slug
func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	slug := c.Param("slug")

	if err := h.registry.Delete(c.Request.Context(), slug); err != nil {
		if errors.Is(err, registry.ErrAgentNotFound) || errors.Is(err, registry.ErrSlugRequired) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Agent not found",
			})
			return
		}
		h.logger.Error("Failed to delete agent", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete agent",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": slug,
	})
}
