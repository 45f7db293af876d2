package dto

// AgentPrompts carries the three-stage prompt triple over the wire
type AgentPrompts struct {
	Plan    string `json:"plan"`
	Execute string `json:"execute"`
	Refine  string `json:"refine"`
}

// CreateAgentRequest is the body of POST /api/v1/agents
type CreateAgentRequest struct {
	Name        string        `json:"name" binding:"required"`
	Type        string        `json:"type"`
	Description string        `json:"description"`
	Prompts     *AgentPrompts `json:"prompts"`
}

// UpdateAgentRequest is the body of PUT /api/v1/agents/:slug.
// Only non-nil fields are applied.
type UpdateAgentRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Prompts     *AgentPrompts `json:"prompts"`
}
