// Package vox implements the client for the analytics service HTTP API.
// It resolves nicknames to numeric ids and fetches precomputed or
// prompt-driven AI reports for them.
package vox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.vox-lab.com"

// Client talks to the analytics service. All calls are stateless; the only
// shared state is the bearer credential set at construction.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the default service endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout bounds every request issued by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates an analytics service client authenticating with token.
func NewClient(token string, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With("component", "vox_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues an authenticated GET against path, classifies the HTTP status
// into the package error taxonomy, and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WarnContext(ctx, "Failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuth, strings.TrimSpace(string(body)))
	case resp.StatusCode == http.StatusUnprocessableEntity:
		if !json.Valid(body) {
			return &ValidationError{}
		}
		return &ValidationError{Detail: json.RawMessage(body)}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(string(body)))
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: unexpected status %d", ErrProtocol, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return nil
}

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	var out string
	return c.get(ctx, "/ping", nil, &out)
}

// GetUserID resolves a nickname (no "@" prefix) to the numeric analytics id.
func (c *Client) GetUserID(ctx context.Context, username string) (int64, error) {
	var out UserID
	if err := c.get(ctx, "/users/username/"+url.PathEscape(username), nil, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// AIAnalytics fetches the precomputed analytics summary for a subject.
// A result with Empty() == true means the service has no data yet.
func (c *Client) AIAnalytics(ctx context.Context, subject Subject, subjectID int64) (*AIAnalytics, error) {
	var out AIAnalytics
	path := fmt.Sprintf("/ai_analytics/%s/%d", subject, subjectID)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CustomReport submits a free-text prompt and returns the server-generated
// content envelope, under the same empty-result semantics as AIAnalytics.
// The report field of the envelope is itself a JSON-encoded string; see the
// report package for the unwrap.
func (c *Client) CustomReport(ctx context.Context, subject Subject, subjectID int64, customPrompt string) (*AIAnalytics, error) {
	var out AIAnalytics
	path := fmt.Sprintf("/ai_analytics/custom/%s/%d", subject, subjectID)
	query := url.Values{"custom_prompt": {customPrompt}}
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
