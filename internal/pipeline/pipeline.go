package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haidt/agent-engine/internal/metrics"
	"github.com/haidt/agent-engine/internal/provider"
	"github.com/haidt/agent-engine/internal/store"
)

// Stage agent names sent to the completion provider
const (
	agentPlan   = "agent_plan"
	agentExec   = "agent_exec"
	agentRefine = "agent_refine"
)

// RecordKeyPrefix namespaces pipeline records in the store
const RecordKeyPrefix = "record:"

// Prompts is the required prompt triple for one pipeline run
type Prompts struct {
	Plan    string `json:"plan"`
	Execute string `json:"execute"`
	Refine  string `json:"refine"`
}

// StageTimings holds per-stage and total elapsed milliseconds
type StageTimings struct {
	PlanMs    int64 `json:"plan_ms"`
	ExecuteMs int64 `json:"execute_ms"`
	RefineMs  int64 `json:"refine_ms"`
	TotalMs   int64 `json:"total_ms"`
}

// StageLengths holds the character length of each stage's text
type StageLengths struct {
	Input int `json:"input"`
	Plan  int `json:"plan"`
	Draft int `json:"draft"`
	Final int `json:"final"`
}

// Record is the artifact persisted per pipeline run. It is created once at
// the end of a successful run and never mutated afterward.
type Record struct {
	InputKind string             `json:"input_kind"`
	Input     string             `json:"input"`
	Plan      string             `json:"plan"`
	Draft     string             `json:"draft"`
	Final     string             `json:"final"`
	Timings   StageTimings       `json:"timings"`
	Lengths   StageLengths       `json:"lengths"`
	Metrics   metrics.Comparison `json:"metrics"`
	CreatedAt time.Time          `json:"created_at"`
}

// Driver runs the plan -> execute -> refine chain against the completion
// provider and persists the resulting record
type Driver struct {
	provider  provider.Provider
	store     store.Store
	logger    *slog.Logger
	inputKind string
}

// NewDriver creates a pipeline driver. inputKind labels persisted records
// (e.g. "latex", "text").
func NewDriver(p provider.Provider, s store.Store, inputKind string, logger *slog.Logger) *Driver {
	if inputKind == "" {
		inputKind = "text"
	}
	return &Driver{
		provider:  p,
		store:     s,
		logger:    logger,
		inputKind: inputKind,
	}
}

// Run executes the three stages in strict sequence: each stage's input
// depends on the previous stage's output, including empty outputs, which
// are forwarded unchanged. It returns the persisted record's id and the
// final text. The error is non-nil only when the record cannot be
// persisted; a degraded provider never fails the run.
func (d *Driver) Run(ctx context.Context, inputText string, prompts Prompts) (string, string, error) {
	recordID := uuid.New().String()
	start := time.Now()

	d.logger.Info("Pipeline run started",
		slog.String("record_id", recordID),
		slog.Int("input_chars", len(inputText)),
	)

	// 1) Plan
	planStart := time.Now()
	planResp := d.provider.Complete(ctx, provider.Request{
		JobID:   recordID,
		Agent:   agentPlan,
		Input:   inputText,
		Context: map[string]string{"prompt": prompts.Plan},
	})
	planMs := time.Since(planStart).Milliseconds()
	planText := planResp.Output

	// 2) Execute: original input plus the plan output
	execStart := time.Now()
	execResp := d.provider.Complete(ctx, provider.Request{
		JobID:   recordID,
		Agent:   agentExec,
		Input:   inputText,
		Context: map[string]string{
			"plan":   planText,
			"prompt": prompts.Execute,
		},
	})
	execMs := time.Since(execStart).Milliseconds()
	draftText := execResp.Output

	// 3) Refine: consumes the execute stage's output
	refineStart := time.Now()
	refineResp := d.provider.Complete(ctx, provider.Request{
		JobID:   recordID,
		Agent:   agentRefine,
		Input:   draftText,
		Context: map[string]string{"prompt": prompts.Refine},
	})
	refineMs := time.Since(refineStart).Milliseconds()
	finalText := refineResp.Output

	record := Record{
		InputKind: d.inputKind,
		Input:     inputText,
		Plan:      planText,
		Draft:     draftText,
		Final:     finalText,
		Timings: StageTimings{
			PlanMs:    planMs,
			ExecuteMs: execMs,
			RefineMs:  refineMs,
			TotalMs:   time.Since(start).Milliseconds(),
		},
		Lengths: StageLengths{
			Input: len(inputText),
			Plan:  len(planText),
			Draft: len(draftText),
			Final: len(finalText),
		},
		Metrics:   metrics.AnalyzePair(inputText, finalText),
		CreatedAt: time.Now().UTC(),
	}

	if err := d.store.Put(ctx, RecordKeyPrefix+recordID, record); err != nil {
		return "", "", fmt.Errorf("failed to persist pipeline record: %w", err)
	}

	d.logger.Info("Pipeline run completed",
		slog.String("record_id", recordID),
		slog.Int64("total_ms", record.Timings.TotalMs),
		slog.Int("final_chars", len(finalText)),
	)

	return recordID, finalText, nil
}

// GetRecord loads a persisted pipeline record by id
func GetRecord(ctx context.Context, s store.Store, recordID string) (*Record, error) {
	var record Record
	if err := s.Get(ctx, RecordKeyPrefix+recordID, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
