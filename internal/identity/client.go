package identity

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

	"github.com/curioapp/curio-server/internal/ratelimit"
)

const (
	// Rate limit: 10 requests per second to the provider, burst of 20.
	defaultRPS   = 10.0
	defaultBurst = 20

	defaultTimeout = 10 * time.Second
)

// Client is a rate-limited identity provider client.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

var _ Provider = (*Client)(nil)

// New creates a new identity client for the given provider base URL.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account with the provider.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/v1/signup", credentialsRequest{
		Email:    email,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	return &session, nil
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/v1/login", credentialsRequest{
		Email:    email,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &session, nil
}

// Verify resolves a bearer token to the provider user it belongs to.
func (c *Client) Verify(ctx context.Context, token string) (*User, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/userinfo", nil, token)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	return &user, nil
}

// doRequest executes a provider request with rate limiting and maps
// non-success statuses to sentinel errors.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any, token string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "provider"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("identity request",
		"method", method,
		"path", path,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		if token != "" {
			return nil, ErrInvalidToken
		}
		return nil, ErrInvalidCredentials
	case http.StatusConflict:
		return nil, ErrEmailExists
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
