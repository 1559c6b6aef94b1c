package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/curioapp/curio-server/internal/identity"
	"github.com/curioapp/curio-server/internal/service"
	"github.com/curioapp/curio-server/internal/store"
	"github.com/curioapp/curio-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Status int `json:"status"`
	Data   T   `json:"data"`
}

// testErrorEnvelope decodes error responses.
type testErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// fakeProvider is an in-memory identity provider. Tokens are derived from
// the email so tests can mint them without a login round trip.
type fakeProvider struct {
	accounts  map[string]string // email -> password
	verifyErr error             // forced Verify failure when set
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{accounts: make(map[string]string)}
}

func (p *fakeProvider) SignUp(_ context.Context, email, password string) (*identity.Session, error) {
	if _, ok := p.accounts[email]; ok {
		return nil, identity.ErrEmailExists
	}
	p.accounts[email] = password
	return p.session(email), nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (*identity.Session, error) {
	if stored, ok := p.accounts[email]; !ok || stored != password {
		return nil, identity.ErrInvalidCredentials
	}
	return p.session(email), nil
}

func (p *fakeProvider) Verify(_ context.Context, token string) (*identity.User, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	for email := range p.accounts {
		if token == "token-"+email {
			return &identity.User{ID: "ext-" + email, Email: email}, nil
		}
	}
	return nil, identity.ErrInvalidToken
}

func (p *fakeProvider) session(email string) *identity.Session {
	return &identity.Session{
		AccessToken: "token-" + email,
		ExpiresIn:   3600,
		User:        identity.User{ID: "ext-" + email, Email: email},
	}
}

// testServer bundles everything handler tests need.
type testServer struct {
	*Server
	api      humatest.TestAPI
	store    store.Store
	provider *fakeProvider
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	provider := newFakeProvider()

	services := &Services{
		Verifier: provider,
		Auth:     service.NewAuthService(provider, st, logger),
		User:     service.NewUserService(st, logger),
		Tab:      service.NewTabService(st, logger),
		Review:   service.NewReviewService(st, logger),
		Bookmark: service.NewBookmarkService(st, logger),
	}

	s := NewServer(st, services, Options{}, logger)

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.api),
		store:    st,
		provider: provider,
	}
}

// signUp registers an account with the fake provider and returns its
// bearer header value. The profile is not onboarded yet.
func (ts *testServer) signUp(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, 200, resp.Code, "signup failed: %s", resp.Body.String())

	var envelope testEnvelope[SessionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return "Bearer " + envelope.Data.AccessToken
}

// onboardUser signs up and claims a username, returning the bearer header
// and the created profile.
func (ts *testServer) onboardUser(t *testing.T, email, username string) (string, ProfileResponse) {
	t.Helper()

	token := ts.signUp(t, email)
	resp := ts.api.Post("/api/v1/users/me",
		"Authorization: "+token,
		map[string]any{"username": username},
	)
	require.Equal(t, 200, resp.Code, "onboarding failed: %s", resp.Body.String())

	var envelope testEnvelope[StyledProfileResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return token, envelope.Data.ProfileResponse
}

// createTab creates a tab for the given bearer token.
func (ts *testServer) createTab(t *testing.T, token, name string) TabResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/tabs",
		"Authorization: "+token,
		map[string]any{"name": name},
	)
	require.Equal(t, 200, resp.Code, "create tab failed: %s", resp.Body.String())

	var envelope testEnvelope[TabResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

// createReview creates a review in a tab, published or draft.
func (ts *testServer) createReview(t *testing.T, token, tabID, title string, published bool) ReviewResponse {
	t.Helper()

	resp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/reviews", tabID),
		"Authorization: "+token,
		map[string]any{
			"title":      title,
			"media_type": "TEXT",
			"published":  published,
		},
	)
	require.Equal(t, 200, resp.Code, "create review failed: %s", resp.Body.String())

	var envelope testEnvelope[ReviewResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}
