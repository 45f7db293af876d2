package handler

import (
	"log/slog"

	"github.com/haidt/agent-engine/internal/broadcast"
	"github.com/haidt/agent-engine/internal/engine"
	"github.com/haidt/agent-engine/internal/pipeline"
	"github.com/haidt/agent-engine/internal/registry"
	"github.com/haidt/agent-engine/internal/store"
	"github.com/haidt/agent-engine/shared/database"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	DBClient  *database.Client
	Scheduler *engine.Scheduler
	Hub       *broadcast.Hub
	Registry  *registry.Registry
	Driver    *pipeline.Driver
	Store     store.Store
}
