package dto

// PipelineRunRequest is the body of POST /api/v1/pipeline/run
type PipelineRunRequest struct {
	Input string `json:"input" binding:"required"`
	Agent string `json:"agent"`
}

// PipelineRunResponse is the synchronous pipeline result
type PipelineRunResponse struct {
	RecordID string `json:"record_id"`
	Final    string `json:"final"`
}
