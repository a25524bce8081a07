package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPRequester is the minimum HTTP client contract used by the GoTrue client.
type HTTPRequester interface {
	Do(req *http.Request) (*http.Response, error)
}

// GoTrueConfig configures the real auth provider adapter.
type GoTrueConfig struct {
	// BaseURL is the project endpoint, e.g. https://xyz.supabase.co.
	BaseURL string
	// AnonKey is the public API key sent with every request.
	AnonKey string
	Timeout time.Duration

	HTTPClient HTTPRequester
	Logger     *zap.Logger
}

// GoTrue talks to a Supabase/GoTrue-style authentication API and emits
// signed-in / signed-out events to subscribers.
type GoTrue struct {
	baseURL    string
	anonKey    string
	httpClient HTTPRequester
	logger     *zap.Logger
	events     broadcaster
}

// NewGoTrue builds the real auth provider.
func NewGoTrue(cfg GoTrueConfig) *GoTrue {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GoTrue{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		anonKey:    strings.TrimSpace(cfg.AnonKey),
		httpClient: httpClient,
		logger:     logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// SignIn performs a password grant and publishes a signed-in event.
func (c *GoTrue) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", payload, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("auth: provider returned no access token")
	}

	sess := &Session{AccessToken: resp.AccessToken, User: resp.User}
	c.events.publish(Event{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// SignOut revokes the token and publishes a signed-out event. The event is
// published even when revocation fails remotely, so local state never
// outlives an attempted sign-out.
func (c *GoTrue) SignOut(ctx context.Context, accessToken string) error {
	err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
	c.events.publish(Event{Type: EventSignedOut, Session: &Session{AccessToken: accessToken}})
	return err
}

// CurrentUser resolves the identity behind an access token.
func (c *GoTrue) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("auth: provider returned no user")
	}
	return &user, nil
}

// Subscribe registers a handler on the auth change stream.
func (c *GoTrue) Subscribe(fn func(Event)) Subscription {
	return c.events.subscribe(fn)
}

type apiError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Message     string `json:"msg"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Description, e.Message, e.Error} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func (c *GoTrue) do(ctx context.Context, method, path, bearer string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("auth: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.text() != "" {
			// Provider messages pass through verbatim; the login view
			// decides which ones get localized.
			return fmt.Errorf("%s", apiErr.text())
		}
		return fmt.Errorf("auth: provider error %d", resp.StatusCode)
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("auth: decode response: %w", err)
	}
	return nil
}
