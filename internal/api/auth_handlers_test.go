package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioapp/curio-server/internal/identity"
)

func TestSignUp(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "nora@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	session := decodeData[SessionResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.NotEmpty(t, session.User.ID)
	assert.Equal(t, "nora@example.com", session.User.Email)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.signUp(t, "nora@example.com")

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "nora@example.com",
		"password": "another-password-entirely",
	})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "nora@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	var body testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "password")
}

func TestSignIn(t *testing.T) {
	ts := setupTestServer(t)
	ts.signUp(t, "nora@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nora@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	session := decodeData[SessionResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "nora@example.com", session.User.Email)
}

func TestSignInWrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.signUp(t, "nora@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nora@example.com",
		"password": "not-the-password-at-all",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestMeBeforeOnboarding(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signUp(t, "nora@example.com")

	resp := ts.api.Get("/api/v1/auth/me", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	me := decodeData[MeResponse](t, resp.Body.Bytes())
	assert.Equal(t, "ext-nora@example.com", me.Identity.ExternalID)
	assert.Equal(t, "nora@example.com", me.Identity.Email)
	assert.Nil(t, me.Profile, "profile should be null before onboarding")
}

func TestMeAfterOnboarding(t *testing.T) {
	ts := setupTestServer(t)
	token, profile := ts.onboardUser(t, "nora@example.com", "nora_reviews")

	resp := ts.api.Get("/api/v1/auth/me", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	me := decodeData[MeResponse](t, resp.Body.Bytes())
	require.NotNil(t, me.Profile)
	assert.Equal(t, profile.ID, me.Profile.ID)
	assert.Equal(t, "nora_reviews", me.Profile.Username)
}

func TestMeRequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/auth/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestInvalidTokenTreatedAsAnonymous(t *testing.T) {
	ts := setupTestServer(t)

	// A garbage token must not break public endpoints.
	resp := ts.api.Get("/api/v1/aesthetics", "Authorization: Bearer garbage")
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// But it cannot grant access to protected ones.
	resp = ts.api.Get("/api/v1/auth/me", "Authorization: Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestProviderOutageIsNotAnonymous(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signUp(t, "nora@example.com")

	// A provider failure during verification must not downgrade the caller
	// to anonymous; the request fails instead.
	ts.provider.verifyErr = identity.ErrServer
	resp := ts.api.Get("/api/v1/aesthetics", "Authorization: "+token)
	require.Equal(t, http.StatusInternalServerError, resp.Code, resp.Body.String())

	var body testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body.Code)

	// Requests without a token are untouched by the outage.
	ts.provider.verifyErr = nil
	resp = ts.api.Get("/api/v1/aesthetics")
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}
