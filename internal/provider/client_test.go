package provider

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSuccess(t *testing.T) {
	var gotReq Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/a2a/complete", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(Response{
			ID:     gotReq.JobID,
			Output: "generated text",
			Model:  "test-model",
		})
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL, APIKey: "secret", Timeout: 5 * time.Second}, slog.Default())

	resp := c.Complete(context.Background(), Request{
		JobID:   "job-1",
		Agent:   "agent_plan",
		Input:   "input text",
		Context: map[string]string{"prompt": "p"},
	})

	assert.Equal(t, "generated text", resp.Output)
	assert.Equal(t, "test-model", resp.Model)
	assert.Equal(t, "job-1", gotReq.JobID)
	assert.Equal(t, "high_reasoning", gotReq.Mode)
	assert.Equal(t, "p", gotReq.Context["prompt"])
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL}, slog.Default())
	resp := c.Complete(context.Background(), Request{JobID: "job-2", Agent: "agent_exec", Input: "x"})

	// Degraded call still yields usable text
	assert.NotEmpty(t, resp.Output)
	assert.Contains(t, resp.Output, "unavailable")
	assert.Equal(t, "job-2", resp.ID)
}

func TestCompleteUnreachable(t *testing.T) {
	c := NewClient(&Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, slog.Default())
	resp := c.Complete(context.Background(), Request{JobID: "job-3", Agent: "agent_refine", Input: "x"})

	assert.NotEmpty(t, resp.Output)
	assert.Contains(t, resp.Output, "Error:")
}

func TestCompleteMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL}, slog.Default())
	resp := c.Complete(context.Background(), Request{JobID: "job-4", Agent: "agent_plan", Input: "x"})

	assert.NotEmpty(t, resp.Output)
	assert.Contains(t, resp.Output, "unavailable")
}
