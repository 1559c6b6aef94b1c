package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/curioapp/curio-server/internal/api/dto"
	"github.com/curioapp/curio-server/internal/domain"
	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/identity"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signUp",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Sign up",
		Description: "Registers a new account with the identity provider",
		Tags:        []string{"Authentication"},
	}, s.handleSignUp)

	huma.Register(s.api, huma.Operation{
		OperationID: "signIn",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Sign in",
		Description: "Exchanges credentials for a session token",
		Tags:        []string{"Authentication"},
	}, s.handleSignIn)

	huma.Register(s.api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current account",
		Description: "Returns the provider identity and local profile, if provisioned",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMe)
}

// === DTOs ===

// CredentialsRequest is the request body for signup and login.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Account email"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"Account password"`
}

// CredentialsInput wraps the credentials request with client IP headers
// for rate limiting.
type CredentialsInput struct {
	Body          CredentialsRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// SessionResponse contains the provider session returned on signup/login.
type SessionResponse struct {
	AccessToken string              `json:"access_token" doc:"Bearer token for subsequent requests"`
	TokenType   string              `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn   int64               `json:"expires_in" doc:"Token expiry in seconds"`
	User        SessionUserResponse `json:"user" doc:"Provider account the session belongs to"`
}

// SessionUserResponse is the provider's account in session responses.
type SessionUserResponse struct {
	ID    string `json:"id" doc:"Identity provider subject"`
	Email string `json:"email" doc:"Account email"`
}

// SessionOutput wraps the session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// IdentityResponse is the provider's view of the account.
type IdentityResponse struct {
	ExternalID string `json:"external_id" doc:"Identity provider subject"`
	Email      string `json:"email" doc:"Account email"`
}

// MeResponse joins provider identity with the local profile.
type MeResponse struct {
	Identity IdentityResponse `json:"identity" doc:"Provider identity"`
	Profile  *ProfileResponse `json:"profile" doc:"Local profile, null until provisioned"`
}

// MeOutput wraps the me response for Huma.
type MeOutput struct {
	Body MeResponse
}

// === Handlers ===

func (s *Server) handleSignUp(ctx context.Context, input *CredentialsInput) (*SessionOutput, error) {
	if err := s.checkAuthRateLimit(input.XForwardedFor, input.XRealIP); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	session, err := s.services.Auth.SignUp(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleSignIn(ctx context.Context, input *CredentialsInput) (*SessionOutput, error) {
	if err := s.checkAuthRateLimit(input.XForwardedFor, input.XRealIP); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	session, err := s.services.Auth.SignIn(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleMe(ctx context.Context, _ *dto.AuthedInput) (*MeOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	gotIdent, profile, err := s.services.Auth.Me(ctx, ident)
	if err != nil {
		return nil, err
	}

	resp := MeResponse{
		Identity: IdentityResponse{
			ExternalID: gotIdent.ID,
			Email:      gotIdent.Email,
		},
	}
	if profile != nil {
		p := mapProfileResponse(profile)
		resp.Profile = &p
	}

	return &MeOutput{Body: resp}, nil
}

// checkAuthRateLimit applies the per-IP limit on credential endpoints.
func (s *Server) checkAuthRateLimit(forwardedFor, realIP string) error {
	key := extractIP(forwardedFor, realIP)
	if !s.authRateLimiter.Allow(key) {
		s.logger.Warn("Auth rate limit exceeded", "ip", key)
		return domainerrors.RateLimited("too many attempts, slow down")
	}
	return nil
}

func mapSessionResponse(session *identity.Session) SessionResponse {
	return SessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   session.ExpiresIn,
		User: SessionUserResponse{
			ID:    session.User.ID,
			Email: session.User.Email,
		},
	}
}

func mapProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		AvatarColor: user.AvatarColor,
		Aesthetic:   user.Aesthetic,
		Palette:     user.Palette,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
