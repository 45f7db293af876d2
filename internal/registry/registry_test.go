package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haidt/agent-engine/internal/store"
)

// memStore is an in-memory store.Store for tests
type memStore struct {
	records map[string]string
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]string)}
}

func (m *memStore) Put(_ context.Context, key string, record any) error {
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

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Linux Research", "linux-research"},
		{"  My Agent!  ", "my-agent"},
		{"Already-Sluggy", "already-sluggy"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), "input %q", tt.name)
	}
}

func TestUpsertCreatesAgent(t *testing.T) {
	r := New(newMemStore(), slog.Default())
	ctx := context.Background()

	created, err := r.Upsert(ctx, Agent{
		Name:    "Linux Research",
		Prompts: Prompts{Plan: "p", Execute: "e", Refine: "r"},
	})
	require.NoError(t, err)

	assert.Equal(t, "linux-research", created.Slug)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	got, err := r.Get(ctx, "linux-research")
	require.NoError(t, err)
	assert.Equal(t, "Linux Research", got.Name)
	assert.Equal(t, "p", got.Prompts.Plan)
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	r := New(newMemStore(), slog.Default())
	ctx := context.Background()

	first, err := r.Upsert(ctx, Agent{Name: "Agent One"})
	require.NoError(t, err)

	second, err := r.Upsert(ctx, Agent{Name: "Agent One", Description: "updated"})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "updated", second.Description)

	// Still exactly one agent registered
	assert.Len(t, r.List(ctx), 1)
}

func TestGetNormalizesSlug(t *testing.T) {
	r := New(newMemStore(), slog.Default())
	ctx := context.Background()

	_, err := r.Upsert(ctx, Agent{Name: "My Agent"})
	require.NoError(t, err)

	got, err := r.Get(ctx, "  MY-AGENT  ")
	require.NoError(t, err)
	assert.Equal(t, "my-agent", got.Slug)
}

func TestGetNotFound(t *testing.T) {
	r := New(newMemStore(), slog.Default())

	_, err := r.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAgentNotFound)

	_, err = r.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrSlugRequired)
}

func TestDelete(t *testing.T) {
	r := New(newMemStore(), slog.Default())
	ctx := context.Background()

	_, err := r.Upsert(ctx, Agent{Name: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "doomed"))
	assert.Empty(t, r.List(ctx))

	err = r.Delete(ctx, "doomed")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestLoadEmptyWhenAbsent(t *testing.T) {
	r := New(newMemStore(), slog.Default())

	doc := r.Load(context.Background())
	assert.Equal(t, 1, doc.Version)
	assert.Empty(t, doc.Agents)
}

func TestTemplateFor(t *testing.T) {
	research := TemplateFor("research")
	assert.NotEmpty(t, research.Prompts.Plan)

	code := TemplateFor("CODE_GENERATOR")
	assert.Equal(t, "Code Generation Agent", code.Name)

	// Unknown types fall back to research
	fallback := TemplateFor("whatever")
	assert.Equal(t, research.Name, fallback.Name)
}
