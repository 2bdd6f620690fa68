// Package careapi provides the outbound capabilities for the Care
// platform: the authenticated HTTP transport generated tools dispatch
// through, and the bearer-token authenticator.
package careapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/caregate/caregate/internal/domain/tool"
)

// DefaultTimeout bounds each tool invocation's HTTP call.
const DefaultTimeout = 60 * time.Second

// Client implements tool.Transport over net/http. One Client is shared
// by all generated tools; it holds no per-call state.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client with the given per-call timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send dispatches one HTTP call and returns the status and body. A
// non-2xx response returns a *tool.StatusError alongside the body; the
// caller translates it into a failure envelope.
func (c *Client) Send(ctx context.Context, method, rawURL string, headers, query map[string]string, body []byte) (int, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for key, value := range query {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("dispatching api call", "method", method, "url", u.Redacted())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, u.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, respBody, &tool.StatusError{
			Status: resp.StatusCode,
			Body:   string(respBody),
		}
	}
	return resp.StatusCode, respBody, nil
}

// Compile-time check that Client implements the transport capability.
var _ tool.Transport = (*Client)(nil)
