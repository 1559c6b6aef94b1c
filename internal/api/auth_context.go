package api

import (
	"context"
	"encoding/json/v2"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/identity"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// identityKey is the context key for the verified provider identity.
const identityKey ctxKey = "identity"

// GetIdentity returns the verified provider identity from context, or nil
// for anonymous requests.
func GetIdentity(ctx context.Context) *identity.User {
	ident, _ := ctx.Value(identityKey).(*identity.User)
	return ident
}

// setIdentity stores the provider identity in context.
func setIdentity(ctx context.Context, ident *identity.User) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// authMiddleware verifies Bearer tokens against the identity provider and
// stores the identity in context. Requests without a token, or with a token
// the provider rejects, continue anonymously; handlers that need a user
// reject them individually. A provider failure is not a bad token and
// surfaces as a 500 instead of silently downgrading the caller.
func authMiddleware(verifier identity.Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			ident, err := verifier.Verify(r.Context(), authHeader[7:])
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(setIdentity(r.Context(), ident)))
			case errors.Is(err, identity.ErrInvalidToken):
				next.ServeHTTP(w, r)
			default:
				logger.Error("Token verification failed", "error", err)
				writeMiddlewareError(w, &APIError{
					status:  http.StatusInternalServerError,
					Code:    "INTERNAL",
					Message: "Could not verify credentials",
				})
			}
		})
	}
}

// writeMiddlewareError emits an APIError from middleware running outside
// huma, matching the error body shape of the registered error handler.
func writeMiddlewareError(w http.ResponseWriter, apiErr *APIError) {
	w.Header().Set("Content-Type", apiErr.ContentType(""))
	w.WriteHeader(apiErr.GetStatus())
	_ = json.MarshalWrite(w, apiErr)
}

// RequireIdentity returns the verified provider identity or a 401 error.
func RequireIdentity(ctx context.Context) (*identity.User, error) {
	ident := GetIdentity(ctx)
	if ident == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return ident, nil
}

// RequireUser returns the local profile for the authenticated caller,
// provisioning one on first contact. Anonymous requests get 401.
func (s *Server) RequireUser(ctx context.Context) (*domain.User, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	return s.services.User.ResolveExternal(ctx, ident.ID)
}

// OptionalUserID returns the local user ID for authenticated callers and
// the empty string for anonymous ones. Like RequireUser, the first
// authenticated request provisions a profile.
func (s *Server) OptionalUserID(ctx context.Context) (string, error) {
	ident := GetIdentity(ctx)
	if ident == nil {
		return "", nil
	}
	user, err := s.services.User.ResolveExternal(ctx, ident.ID)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
