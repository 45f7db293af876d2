package engine

import "fmt"

// Operation names the work a Job performs. The set is closed: dispatch
// switches exhaustively and anything else fails the Job.
type Operation string

const (
	OpRunAgent     Operation = "run_agent"
	OpCreateAgent  Operation = "create_agent"
	OpListAgents   Operation = "list_agents"
	OpUpdateAgent  Operation = "update_agent"
	OpDeleteAgent  Operation = "delete_agent"
	OpGetRegistry  Operation = "get_registry"
	OpServerStatus Operation = "server_status"
)

// Params carries the operation's free-form parameters
type Params map[string]any

// stringParam reads a string-typed parameter, "" when absent or mistyped
func stringParam(p Params, key string) string {
	if p == nil {
		return ""
	}
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// mapParam reads a nested object parameter
func mapParam(p Params, key string) map[string]any {
	if p == nil {
		return nil
	}
	if v, ok := p[key].(map[string]any); ok {
		return v
	}
	return nil
}

// requireStringParam reads a mandatory string parameter
func requireStringParam(p Params, key string) (string, error) {
	v := stringParam(p, key)
	if v == "" {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	return v, nil
}
