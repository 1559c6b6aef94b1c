// Package identity talks to the external identity provider. Curio never
// stores credentials itself; signup, login, and token verification are all
// delegated to the provider over HTTP.
package identity

import (
	"context"
	"errors"
)

// Errors returned by provider calls.
var (
	// ErrInvalidCredentials indicates the provider rejected an email/password pair.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrEmailExists indicates signup with an email the provider already knows.
	ErrEmailExists = errors.New("identity: email already registered")
	// ErrRateLimited indicates the provider throttled us.
	ErrRateLimited = errors.New("identity: rate limited")
	// ErrServer indicates a provider-side failure.
	ErrServer = errors.New("identity: server error")
)

// User is the provider's view of an account. ID is the stable subject used
// as the local external_id.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful signup or login.
type Session struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// Verifier resolves a bearer token to a provider user. The auth middleware
// depends on this seam rather than the concrete client.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// Provider is the full surface the auth service needs.
type Provider interface {
	Verifier
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
}
