// Package agent is the HTTP client for the marketing-content agent
// service. Every generation endpoint answers with an event stream
// (see the sse package); the client's job is building the request,
// failing fast on HTTP-level errors, and wiring the response body into
// the decoder.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexschlessinger/martool/events"
	"github.com/alexschlessinger/martool/session"
	"github.com/alexschlessinger/martool/sse"
	"go.uber.org/zap"
)

// DefaultBaseURL is the local development address of the agent
// service. The CLI overrides it from MARTOOL_AGENT_URL.
const DefaultBaseURL = "http://localhost:8001"

// HealthTimeout bounds the reachability probe. Generation requests
// carry no client-side deadline; jobs legitimately run long and the
// server owns stream termination.
const HealthTimeout = 3 * time.Second

// Config carries everything the client needs. No ambient globals: the
// base URL and transport are injected at construction.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client issues streaming generation requests against one agent
// service instance.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: base, http: hc}
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError reports a non-2xx response received before any event
// streamed.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("agent service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("agent service returned status %d: %s", e.StatusCode, e.Body)
}

// stream POSTs a JSON body and feeds the response through the event
// decoder. A transport failure on the initial request (no response
// ever arrived) is wrapped in session.ErrInterrupted so the session
// can downgrade it to an advisory; the server-side job continues
// regardless of this connection.
func (c *Client) stream(ctx context.Context, path string, body any, emit func(*events.Event)) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	zap.S().Debugw("starting generation request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("%w: %v", session.ErrInterrupted, err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Fail fast; never try to read a stream off an error response.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	return sse.Decode(ctx, resp.Body, emit)
}

// Health probes GET /health with a short deadline. True means a 2xx
// answer; any timeout, network failure, or error status is false.
// Never returns an error.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		zap.S().Debugw("health check failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
