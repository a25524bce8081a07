// Package apiclient is the shared outbound REST client for the chatbot
// backend. It is constructed once at startup and passed down; it holds no
// mutable state and is safe for concurrent use.
package apiclient

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

// SourceTypeHeader identifies the caller class on every backend request.
const (
	SourceTypeHeader = "X-Source-Type"
	SourceTypeValue  = "backoffice"
)

// HTTPRequester is the minimum HTTP client contract, swappable in tests.
type HTTPRequester interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields the bearer token for one outgoing call, freshly from the
// session bound to the request context. Empty means no Authorization header.
type TokenSource func(ctx context.Context) string

// Config configures the backend client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPRequester
	Token      TokenSource
}

// Client issues JSON requests against the chatbot backend.
type Client struct {
	baseURL    string
	httpClient HTTPRequester
	token      TokenSource
}

// New builds the backend client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
		token:      cfg.Token,
	}
}

// Get issues a GET and decodes the response into target.
func (c *Client) Get(ctx context.Context, path string, target any) error {
	return c.Do(ctx, http.MethodGet, path, nil, target)
}

// Post issues a POST with a JSON payload and decodes the response into target.
func (c *Client) Post(ctx context.Context, path string, payload, target any) error {
	return c.Do(ctx, http.MethodPost, path, payload, target)
}

// Delete issues a DELETE, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do issues one request. Non-2xx statuses become errors carrying a snippet
// of the response body.
func (c *Client) Do(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SourceTypeHeader, SourceTypeValue)
	if c.token != nil {
		if tok := c.token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend: remote error %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}
