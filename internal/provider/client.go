package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Config holds completion provider client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is the HTTP client for the completion endpoint
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new completion provider client
func NewClient(config *Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Complete calls POST {base}/a2a/complete. It never returns an error:
// any failure degrades to a Response whose Output explains the problem,
// so the pipeline always has text to continue with.
func (c *Client) Complete(ctx context.Context, req Request) Response {
	url := c.baseURL + "/a2a/complete"
	start := time.Now()

	if req.Mode == "" {
		req.Mode = "high_reasoning"
	}
	if req.Context == nil {
		req.Context = map[string]string{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return c.fallback(req, url, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return c.fallback(req, url, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.fallback(req, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fallback(req, url, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fallback(req, url, err)
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return c.fallback(req, url, err)
	}

	if out.ID == "" {
		out.ID = req.JobID
	}
	if out.DurationMs == 0 {
		out.DurationMs = time.Since(start).Milliseconds()
	}

	c.logger.Debug("Completion call finished",
		slog.String("job_id", req.JobID),
		slog.String("agent", req.Agent),
		slog.Int64("duration_ms", out.DurationMs),
	)

	return out
}

// fallback builds the placeholder response for a degraded provider call
func (c *Client) fallback(req Request, url string, err error) Response {
	c.logger.Warn("Completion provider degraded, returning placeholder output",
		slog.String("job_id", req.JobID),
		slog.String("agent", req.Agent),
		slog.Any("error", err),
	)

	return Response{
		ID: req.JobID,
		Output: fmt.Sprintf(
			"[completion API unavailable at %s. Check ENGINE_API_BASE and that the provider is running. Error: %v]",
			url, err,
		),
	}
}
