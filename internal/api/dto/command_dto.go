package dto

// CommandRequest is the body of POST /api/v1/commands
type CommandRequest struct {
	Operation string         `json:"operation" binding:"required"`
	Params    map[string]any `json:"params"`
}

// CommandResponse acknowledges an accepted command
type CommandResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
