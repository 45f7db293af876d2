package provider

import "context"

// Request is one completion call. Context carries stage-specific material
// such as the prompt and, for the execute stage, the plan output.
type Request struct {
	JobID   string            `json:"job_id"`
	Agent   string            `json:"agent"`
	Input   string            `json:"input"`
	Context map[string]string `json:"context"`
	Mode    string            `json:"mode"`
}

// Usage holds token accounting reported by the provider, when available
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the provider's answer. Output is always populated: provider
// failures are absorbed into an explanatory placeholder string so callers
// always have text to forward downstream.
type Response struct {
	ID         string `json:"id"`
	Output     string `json:"output"`
	Model      string `json:"model,omitempty"`
	Usage      *Usage `json:"usage,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// Provider is the external text-completion collaborator. Implementations
// must not return transport errors; degraded calls still yield a Response.
type Provider interface {
	Complete(ctx context.Context, req Request) Response
}
