package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haidt/agent-engine/internal/provider"
	"github.com/haidt/agent-engine/internal/store"
)

// stubProvider replays a fixed output sequence and records each request
type stubProvider struct {
	outputs []string
	calls   []provider.Request
}

func (s *stubProvider) Complete(_ context.Context, req provider.Request) provider.Response {
	s.calls = append(s.calls, req)
	idx := len(s.calls) - 1
	out := ""
	if idx < len(s.outputs) {
		out = s.outputs[idx]
	}
	return provider.Response{ID: req.JobID, Output: out}
}

// memStore is an in-memory store.Store
type memStore struct {
	records map[string]string
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]string)}
}

func (m *memStore) Put(_ context.Context, key string, record any) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.records[key] = string(data)
	return nil
}

func (m *memStore) Get(_ context.Context, key string, dest any) error {
	value, ok := m.records[key]
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal([]byte(value), dest)
}

func testPrompts() Prompts {
	return Prompts{Plan: "p", Execute: "e", Refine: "r"}
}

func TestRunThreeStageChain(t *testing.T) {
	p := &stubProvider{outputs: []string{"- Plan bullets", "Draft output", "Final refined output"}}
	s := newMemStore()
	d := NewDriver(p, s, "latex", slog.Default())

	recordID, final, err := d.Run(context.Background(), "\\section{A} Example", testPrompts())
	require.NoError(t, err)
	require.NotEmpty(t, recordID)
	assert.Equal(t, "Final refined output", final)

	// The persisted record carries the three stage outputs in order
	rec, err := GetRecord(context.Background(), s, recordID)
	require.NoError(t, err)
	assert.Equal(t, "- Plan bullets", rec.Plan)
	assert.Equal(t, "Draft output", rec.Draft)
	assert.Equal(t, "Final refined output", rec.Final)
	assert.Equal(t, "latex", rec.InputKind)
	assert.Equal(t, "\\section{A} Example", rec.Input)
	assert.Equal(t, final, rec.Final)
}

func TestRunStageInputsChained(t *testing.T) {
	p := &stubProvider{outputs: []string{"plan out", "draft out", "final out"}}
	d := NewDriver(p, newMemStore(), "text", slog.Default())

	_, _, err := d.Run(context.Background(), "original input", testPrompts())
	require.NoError(t, err)
	require.Len(t, p.calls, 3)

	// Plan sees the raw input and the plan prompt
	assert.Equal(t, "agent_plan", p.calls[0].Agent)
	assert.Equal(t, "original input", p.calls[0].Input)
	assert.Equal(t, "p", p.calls[0].Context["prompt"])

	// Execute sees the original input plus the plan output
	assert.Equal(t, "agent_exec", p.calls[1].Agent)
	assert.Equal(t, "original input", p.calls[1].Input)
	assert.Equal(t, "plan out", p.calls[1].Context["plan"])
	assert.Equal(t, "e", p.calls[1].Context["prompt"])

	// Refine consumes the execute stage's output
	assert.Equal(t, "agent_refine", p.calls[2].Agent)
	assert.Equal(t, "draft out", p.calls[2].Input)
	assert.Equal(t, "r", p.calls[2].Context["prompt"])

	// All three calls share the run's record id
	assert.Equal(t, p.calls[0].JobID, p.calls[1].JobID)
	assert.Equal(t, p.calls[1].JobID, p.calls[2].JobID)
}

func TestRunEmptyStageOutputForwarded(t *testing.T) {
	p := &stubProvider{outputs: []string{"", "", ""}}
	s := newMemStore()
	d := NewDriver(p, s, "text", slog.Default())

	recordID, final, err := d.Run(context.Background(), "input", testPrompts())
	require.NoError(t, err)
	assert.Equal(t, "", final)

	// Empty plan output still flows into the execute context, and the empty
	// draft becomes the refine stage's input
	require.Len(t, p.calls, 3)
	assert.Equal(t, "", p.calls[1].Context["plan"])
	assert.Equal(t, "", p.calls[2].Input)

	rec, err := GetRecord(context.Background(), s, recordID)
	require.NoError(t, err)
	assert.Equal(t, "", rec.Final)
}

func TestRunEmptyInput(t *testing.T) {
	p := &stubProvider{outputs: []string{"plan", "draft", "final"}}
	s := newMemStore()
	d := NewDriver(p, s, "text", slog.Default())

	recordID, final, err := d.Run(context.Background(), "", testPrompts())
	require.NoError(t, err)
	assert.Equal(t, "final", final)

	rec, err := GetRecord(context.Background(), s, recordID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Lengths.Input)
	assert.Equal(t, 0, rec.Metrics.Input.Counts.Words)
}

func TestRunPersistFailureFailsRun(t *testing.T) {
	p := &stubProvider{outputs: []string{"a", "b", "c"}}
	s := newMemStore()
	s.putErr = errors.New("disk full")
	d := NewDriver(p, s, "text", slog.Default())

	_, _, err := d.Run(context.Background(), "input", testPrompts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist")
}

func TestRunRecordsTimingsAndLengths(t *testing.T) {
	p := &stubProvider{outputs: []string{"12345", "1234567", "123"}}
	s := newMemStore()
	d := NewDriver(p, s, "text", slog.Default())

	recordID, _, err := d.Run(context.Background(), "ab", testPrompts())
	require.NoError(t, err)

	rec, err := GetRecord(context.Background(), s, recordID)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Lengths.Input)
	assert.Equal(t, 5, rec.Lengths.Plan)
	assert.Equal(t, 7, rec.Lengths.Draft)
	assert.Equal(t, 3, rec.Lengths.Final)
	assert.GreaterOrEqual(t, rec.Timings.TotalMs, rec.Timings.PlanMs)
}

func TestGetRecordNotFound(t *testing.T) {
	_, err := GetRecord(context.Background(), newMemStore(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
