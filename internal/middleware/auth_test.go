package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/model"
	"github.com/Tsaleem123/game-inventory-backend/internal/payload"
)

func newTestIssuer(opts ...auth.IssuerOption) *auth.TokenIssuer {
	return auth.NewTokenIssuer(
		"test-signing-secret",
		"game-inventory-api",
		"game-inventory-api",
		24*time.Hour,
		15*time.Minute,
		15*time.Minute,
		opts...,
	)
}

// protectedProbe records whether the wrapped handler ran and what it saw in
// the request context.
type protectedProbe struct {
	called bool
	claims *auth.Claims
	userID bson.ObjectID
	hasID  bool
}

func (p *protectedProbe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.claims, _ = ClaimsFromContext(r.Context())
		p.userID, p.hasID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func doAuthenticated(t *testing.T, issuer *auth.TokenIssuer, authorization string) (*protectedProbe, *httptest.ResponseRecorder) {
	t.Helper()

	probe := &protectedProbe{}
	wrapped := Authenticate(issuer)(probe.handler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	return probe, rec
}

func TestAuthenticate(t *testing.T) {
	user := &model.User{
		ID:    bson.NewObjectID(),
		Email: "player@example.com",
	}

	t.Run("valid token reaches the handler with claims", func(t *testing.T) {
		issuer := newTestIssuer()
		token, err := issuer.IssueSession(user)
		require.NoError(t, err)

		probe, rec := doAuthenticated(t, issuer, "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, probe.called)
		require.NotNil(t, probe.claims)
		assert.Equal(t, user.ID.Hex(), probe.claims.Subject)
		assert.Equal(t, user.Email, probe.claims.Email)
		assert.True(t, probe.hasID)
		assert.Equal(t, user.ID, probe.userID)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		issuer := newTestIssuer()
		token, err := issuer.IssueSession(user)
		require.NoError(t, err)

		probe, rec := doAuthenticated(t, issuer, "bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, probe.called)
	})

	t.Run("missing header", func(t *testing.T) {
		probe, rec := doAuthenticated(t, newTestIssuer(), "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, probe.called)

		var body payload.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body.Error.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		issuer := newTestIssuer()
		token, err := issuer.IssueSession(user)
		require.NoError(t, err)

		probe, rec := doAuthenticated(t, issuer, "Token "+token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, probe.called)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-25 * time.Hour)
		stale := newTestIssuer(auth.WithClock(func() time.Time { return past }))
		token, err := stale.IssueSession(user)
		require.NoError(t, err)

		// Verified against the real clock: 25h old beats the 24h lifetime
		// plus leeway.
		probe, rec := doAuthenticated(t, newTestIssuer(), "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, probe.called)
	})

	t.Run("token within leeway is accepted", func(t *testing.T) {
		past := time.Now().Add(-24*time.Hour - 2*time.Minute)
		stale := newTestIssuer(auth.WithClock(func() time.Time { return past }))
		token, err := stale.IssueSession(user)
		require.NoError(t, err)

		probe, rec := doAuthenticated(t, newTestIssuer(), "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, probe.called)
	})

	t.Run("tampered token", func(t *testing.T) {
		issuer := newTestIssuer()
		token, err := issuer.IssueSession(user)
		require.NoError(t, err)

		probe, rec := doAuthenticated(t, issuer, "Bearer "+token+"x")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, probe.called)
	})

	t.Run("non-session token is rejected", func(t *testing.T) {
		issuer := newTestIssuer()
		token, _, err := issuer.IssueEmailVerification("player@example.com")
		require.NoError(t, err)

		probe, rec := doAuthenticated(t, issuer, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, probe.called)
	})
}
