package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/curioapp/curio-server/internal/domain"
	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/identity"
	"github.com/curioapp/curio-server/internal/store"
)

// AuthService fronts the external identity provider and joins provider
// identities with local profiles. Curio never sees passwords beyond
// relaying them to the provider.
type AuthService struct {
	provider identity.Provider
	store    store.Store
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(provider identity.Provider, st store.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		store:    st,
		logger:   logger,
	}
}

// SignUp registers a new account with the identity provider. The local
// profile is not created here; it is provisioned lazily on the first
// authenticated request.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, mapIdentityError(err)
	}

	s.logger.Info("account registered", "external_id", session.User.ID)
	return session, nil
}

// SignIn exchanges credentials for a session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, mapIdentityError(err)
	}
	return session, nil
}

// Me returns the provider identity plus the local profile. The profile is
// nil when the account has not been provisioned yet.
func (s *AuthService) Me(ctx context.Context, ident *identity.User) (*identity.User, *domain.User, error) {
	user, err := s.store.GetUserByExternalID(ctx, ident.ID)
	if store.IsNotFound(err) {
		return ident, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	return ident, user, nil
}

// mapIdentityError translates provider sentinels into API-facing errors.
func mapIdentityError(err error) error {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return domainerrors.Unauthorized("invalid email or password")
	case errors.Is(err, identity.ErrEmailExists):
		return domainerrors.Conflict("an account with this email already exists")
	case errors.Is(err, identity.ErrRateLimited):
		return domainerrors.RateLimited("too many attempts, slow down")
	default:
		return domainerrors.Internal("identity provider unavailable").WithCause(err)
	}
}
