package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient calls one service group over HTTP POST, one endpoint path per
// operation, with bounded retry. The underlying http.Client carries the
// connection pool shared by all concurrent runs; nothing mutable outlives a
// single call's retry loop.
type HTTPClient struct {
	group      string
	baseURL    string
	retry      RetryConfig
	httpClient *http.Client
}

// NewHTTPClient creates a client for one service group. The timeout applies
// to each individual attempt, not the whole retry loop.
func NewHTTPClient(group, baseURL string, timeout time.Duration, retry RetryConfig) *HTTPClient {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	return &HTTPClient{
		group:      group,
		baseURL:    strings.TrimRight(baseURL, "/"),
		retry:      retry,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Group returns the service group this client targets.
func (c *HTTPClient) Group() string {
	return c.group
}

// Call posts the body to <base>/<operation>, retrying transport failures and
// server-side errors with exponential backoff. Client-side responses and
// malformed payloads fail immediately without consuming further attempts.
func (c *HTTPClient) Call(ctx context.Context, operation string, body map[string]any) (map[string]any, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		resp, err := c.post(ctx, operation, body)
		if err == nil {
			return resp, nil
		}
		if !IsTransient(err) {
			return nil, err
		}
		lastErr = err

		if attempt == c.retry.Attempts {
			break
		}
		if err := sleepWithContext(ctx, c.retry.backoff(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, &CallError{
		Group:     c.group,
		Operation: operation,
		Exhausted: true,
		Err:       fmt.Errorf("retries exhausted after %d attempts: %w", c.retry.Attempts, lastErr),
	}
}

func (c *HTTPClient) post(ctx context.Context, operation string, body map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &CallError{Group: c.group, Operation: operation, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+operation, bytes.NewReader(payload))
	if err != nil {
		return nil, &CallError{Group: c.group, Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &CallError{Group: c.group, Operation: operation, Temporary: true, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Group: c.group, Operation: operation, Temporary: true, Err: err}
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &CallError{
			Group:     c.group,
			Operation: operation,
			Status:    resp.StatusCode,
			Temporary: true,
			Err:       fmt.Errorf("server error %d", resp.StatusCode),
		}
	}
	if resp.StatusCode >= 400 {
		return nil, &CallError{
			Group:     c.group,
			Operation: operation,
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("client error %d", resp.StatusCode),
		}
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &CallError{Group: c.group, Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}
