package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/haidt/agent-engine/internal/store"
)

// registryKey is where the whole registry document lives in the store
const registryKey = "agent_registry"

var (
	// ErrAgentNotFound is returned when no agent matches a slug
	ErrAgentNotFound = errors.New("agent not found")

	// ErrSlugRequired is returned when an operation needs a slug and none was given
	ErrSlugRequired = errors.New("agent slug is required")

	slugInvalidRe  = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// Prompts is the three-stage prompt triple of an agent
type Prompts struct {
	Plan    string `json:"plan"`
	Execute string `json:"execute"`
	Refine  string `json:"refine"`
}

// Agent is one registered agent
type Agent struct {
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Prompts      Prompts   `json:"prompts"`
	Capabilities []string  `json:"capabilities,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Document is the persisted registry record
type Document struct {
	Version int     `json:"version"`
	Agents  []Agent `json:"agents"`
}

// Registry manages registered agents on top of the key-value store
type Registry struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a Registry
func New(s store.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:  s,
		logger: logger,
	}
}

// Slugify derives the deterministic slug for an agent name
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Load reads the registry document, returning an empty one when absent
// or unreadable
func (r *Registry) Load(ctx context.Context) Document {
	var doc Document
	if err := r.store.Get(ctx, registryKey, &doc); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("Failed to load agent registry, starting empty",
				slog.Any("error", err),
			)
		}
		return Document{Version: 1, Agents: []Agent{}}
	}
	if doc.Agents == nil {
		doc.Agents = []Agent{}
	}
	return doc
}

// List returns all registered agents
func (r *Registry) List(ctx context.Context) []Agent {
	return r.Load(ctx).Agents
}

// Get returns the agent with the given slug. Lookup is case-insensitive
// and tolerates surrounding whitespace.
func (r *Registry) Get(ctx context.Context, slug string) (*Agent, error) {
	norm := strings.ToLower(strings.TrimSpace(slug))
	if norm == "" {
		return nil, ErrSlugRequired
	}

	for _, a := range r.Load(ctx).Agents {
		if a.Slug == norm {
			agent := a
			return &agent, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, slug)
}

// Upsert inserts or updates an agent by slug. Create sets created_at;
// update preserves it. updated_at is always bumped.
func (r *Registry) Upsert(ctx context.Context, agent Agent) (*Agent, error) {
	if agent.Slug == "" {
		agent.Slug = Slugify(agent.Name)
	}
	if agent.Slug == "" {
		return nil, ErrSlugRequired
	}

	now := time.Now().UTC()
	agent.UpdatedAt = now

	doc := r.Load(ctx)
	found := false
	for i, a := range doc.Agents {
		if a.Slug == agent.Slug {
			if agent.CreatedAt.IsZero() {
				agent.CreatedAt = a.CreatedAt
			}
			doc.Agents[i] = agent
			found = true
			break
		}
	}
	if !found {
		if agent.CreatedAt.IsZero() {
			agent.CreatedAt = now
		}
		doc.Agents = append(doc.Agents, agent)
	}

	if err := r.store.Put(ctx, registryKey, doc); err != nil {
		return nil, fmt.Errorf("failed to save agent registry: %w", err)
	}

	r.logger.Info("Agent registry updated",
		slog.String("slug", agent.Slug),
		slog.Bool("created", !found),
	)

	return &agent, nil
}

// Delete removes the agent with the given slug
func (r *Registry) Delete(ctx context.Context, slug string) error {
	norm := strings.ToLower(strings.TrimSpace(slug))
	if norm == "" {
		return ErrSlugRequired
	}

	doc := r.Load(ctx)
	kept := make([]Agent, 0, len(doc.Agents))
	found := false
	for _, a := range doc.Agents {
		if a.Slug == norm {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, slug)
	}

	doc.Agents = kept
	if err := r.store.Put(ctx, registryKey, doc); err != nil {
		return fmt.Errorf("failed to save agent registry: %w", err)
	}

	r.logger.Info("Agent deleted from registry",
		slog.String("slug", norm),
	)

	return nil
}
