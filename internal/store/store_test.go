package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLStore(db, slog.Default())
	require.NoError(t, err)
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := testRecord{Name: "alpha", Count: 3}
	require.NoError(t, s.Put(ctx, "rec:1", in))

	var out testRecord
	require.NoError(t, s.Get(ctx, "rec:1", &out))
	assert.Equal(t, in, out)
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "rec:1", testRecord{Name: "first"}))
	require.NoError(t, s.Put(ctx, "rec:1", testRecord{Name: "second", Count: 1}))

	var out testRecord
	require.NoError(t, s.Get(ctx, "rec:1", &out))
	assert.Equal(t, "second", out.Name)
	assert.Equal(t, 1, out.Count)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	var out testRecord
	err := s.Get(context.Background(), "missing", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetArbitraryShape(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Writers define their own shapes; the store must not care.
	require.NoError(t, s.Put(ctx, "free", map[string]any{"nested": map[string]any{"ok": true}}))

	var out map[string]any
	require.NoError(t, s.Get(ctx, "free", &out))
	nested, ok := out["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, nested["ok"])
}
