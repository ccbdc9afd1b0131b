package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/payload"
)

type contextKey struct{}

var userClaimsKey = contextKey{}

// Authenticate verifies the bearer session token and stores its claims in
// the request context for downstream handlers.
func Authenticate(tokenIssuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractAndVerifyToken(r, tokenIssuer)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(payload.NewErrorResponse("unauthorized", err.Error()))
				return
			}

			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractAndVerifyToken(r *http.Request, tokenIssuer *auth.TokenIssuer) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header format")
	}

	return tokenIssuer.VerifySession(parts[1])
}

// ClaimsFromContext returns the session claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*auth.Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's id from the session
// claims.
func UserIDFromContext(ctx context.Context) (bson.ObjectID, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return bson.ObjectID{}, false
	}

	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return bson.ObjectID{}, false
	}

	return id, true
}
