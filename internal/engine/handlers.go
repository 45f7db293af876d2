package engine

import (
	"context"
	"fmt"

	"github.com/haidt/agent-engine/internal/pipeline"
	"github.com/haidt/agent-engine/internal/registry"
)

// runAgent resolves an agent by slug and drives the three-stage pipeline
// with its prompts
func (s *Scheduler) runAgent(ctx context.Context, job *Job, params Params) (any, error) {
	agentName, err := requireStringParam(params, "agent")
	if err != nil {
		return nil, err
	}
	input := stringParam(params, "input")

	s.progress(job, 25, fmt.Sprintf("Running agent: %s", agentName))

	agent, err := s.registry.Get(ctx, agentName)
	if err != nil {
		return nil, err
	}

	s.progress(job, 50, "Executing agent workflow...")

	recordID, output, err := s.driver.Run(ctx, input, pipeline.Prompts{
		Plan:    agent.Prompts.Plan,
		Execute: agent.Prompts.Execute,
		Refine:  agent.Prompts.Refine,
	})
	if err != nil {
		return nil, err
	}

	s.progress(job, 75, "Agent execution completed")

	return map[string]any{
		"success": true,
		"job_id":  recordID,
		"output":  output,
		"agent":   agent.Slug,
	}, nil
}

// createAgent registers a new agent, filling gaps from the type template
func (s *Scheduler) createAgent(ctx context.Context, job *Job, params Params) (any, error) {
	job.appendLog("Creating new agent...")
	s.progress(job, 25, "")

	tpl := registry.TemplateFor(stringParam(params, "type"))

	name := stringParam(params, "name")
	if name == "" {
		name = tpl.Name
	}
	description := stringParam(params, "description")
	if description == "" {
		description = tpl.Description
	}

	prompts := tpl.Prompts
	if p := mapParam(params, "prompts"); p != nil {
		if v, ok := p["plan"].(string); ok && v != "" {
			prompts.Plan = v
		}
		if v, ok := p["execute"].(string); ok && v != "" {
			prompts.Execute = v
		}
		if v, ok := p["refine"].(string); ok && v != "" {
			prompts.Refine = v
		}
	}

	s.progress(job, 50, fmt.Sprintf("Agent name: %s", name))

	agent, err := s.registry.Upsert(ctx, registry.Agent{
		Name:         name,
		Description:  description,
		Prompts:      prompts,
		Capabilities: tpl.Capabilities,
	})
	if err != nil {
		return nil, err
	}

	s.progress(job, 75, fmt.Sprintf("Agent created with slug: %s", agent.Slug))

	return map[string]any{
		"success": true,
		"slug":    agent.Slug,
		"agent":   agent,
	}, nil
}

func (s *Scheduler) listAgents(ctx context.Context, job *Job) (any, error) {
	job.appendLog("Fetching agent list...")

	agents := s.registry.List(ctx)
	job.appendLog(fmt.Sprintf("Found %d agents", len(agents)))

	return map[string]any{
		"success": true,
		"count":   len(agents),
		"agents":  agents,
	}, nil
}

// updateAgent merges the "updates" object into an existing agent
func (s *Scheduler) updateAgent(ctx context.Context, job *Job, params Params) (any, error) {
	slug, err := requireStringParam(params, "agent")
	if err != nil {
		return nil, err
	}

	s.progress(job, 25, fmt.Sprintf("Updating agent: %s", slug))

	existing, err := s.registry.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.progress(job, 50, "Agent found, preparing update...")

	updated := *existing
	if u := mapParam(params, "updates"); u != nil {
		if v, ok := u["name"].(string); ok && v != "" {
			updated.Name = v
		}
		if v, ok := u["description"].(string); ok {
			updated.Description = v
		}
		if p, ok := u["prompts"].(map[string]any); ok {
			if v, ok := p["plan"].(string); ok && v != "" {
				updated.Prompts.Plan = v
			}
			if v, ok := p["execute"].(string); ok && v != "" {
				updated.Prompts.Execute = v
			}
			if v, ok := p["refine"].(string); ok && v != "" {
				updated.Prompts.Refine = v
			}
		}
	}

	// Slug stays stable across updates
	updated.Slug = existing.Slug

	saved, err := s.registry.Upsert(ctx, updated)
	if err != nil {
		return nil, err
	}

	job.appendLog(fmt.Sprintf("Successfully updated agent: %s", saved.Slug))

	return map[string]any{
		"success":       true,
		"message":       fmt.Sprintf("Agent '%s' updated successfully", saved.Slug),
		"updated_agent": saved,
	}, nil
}

func (s *Scheduler) deleteAgent(ctx context.Context, job *Job, params Params) (any, error) {
	slug, err := requireStringParam(params, "agent")
	if err != nil {
		return nil, err
	}

	s.progress(job, 25, fmt.Sprintf("Deleting agent: %s", slug))

	agent, err := s.registry.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.progress(job, 50, "Agent found, removing from registry...")

	if err := s.registry.Delete(ctx, agent.Slug); err != nil {
		return nil, err
	}

	job.appendLog(fmt.Sprintf("Successfully deleted agent: %s", agent.Slug))

	return map[string]any{
		"success":       true,
		"message":       fmt.Sprintf("Agent '%s' deleted successfully", agent.Slug),
		"deleted_agent": agent,
	}, nil
}

func (s *Scheduler) getRegistry(ctx context.Context, job *Job) (any, error) {
	job.appendLog("Loading agent registry...")

	doc := s.registry.Load(ctx)
	job.appendLog(fmt.Sprintf("Registry loaded with %d agents", len(doc.Agents)))

	return map[string]any{
		"success":  true,
		"registry": doc,
	}, nil
}

func (s *Scheduler) serverStatus(job *Job) any {
	job.appendLog("Collecting server status...")

	c := s.Status()
	return map[string]any{
		"success":        true,
		"running":        true,
		"jobs_total":     c.Total,
		"jobs_pending":   c.Pending,
		"jobs_running":   c.Running,
		"jobs_completed": c.Completed,
		"jobs_failed":    c.Failed,
		"uptime_seconds": c.UptimeSec,
	}
}
