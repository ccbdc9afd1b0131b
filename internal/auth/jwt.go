// Package auth issues and verifies the signed tokens used by the
// authentication flows. Three kinds exist, told apart by a mandatory
// purpose claim: session tokens, email-verification tokens, and
// password-reset tokens. Tokens are never persisted; everything a verifier
// needs travels in the signed payload.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Tsaleem123/game-inventory-backend/internal/model"
)

// Token purposes. Verification rejects any token whose purpose does not
// match the path it is presented on.
const (
	PurposeSession           = "session"
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

// sessionLeeway is the clock-skew tolerance applied when checking session
// token expiry. Email and reset tokens get none.
const sessionLeeway = 5 * time.Minute

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
)

// Claims carries the verified facts embedded in an issued token.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
}

// TokenIssuer creates and validates the three token kinds. It is a pure
// function of its configuration and clock, safe for concurrent use.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	audience   string
	sessionTTL time.Duration
	emailTTL   time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// IssuerOption customizes a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithClock injects a custom clock, useful for tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewTokenIssuer creates a TokenIssuer. The signing secret and token
// lifetimes are injected here once; nothing is read from ambient state at
// issue or verify time.
func NewTokenIssuer(
	secret, issuer, audience string,
	sessionTTL, emailTTL, resetTTL time.Duration,
	opts ...IssuerOption,
) *TokenIssuer {
	ti := &TokenIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		sessionTTL: sessionTTL,
		emailTTL:   emailTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(ti)
	}

	return ti
}

// IssueSession creates a session token for a confirmed user. Every call
// produces a distinct token because the jti is freshly drawn, even for the
// same user within the same second.
func (i *TokenIssuer) IssueSession(user *model.User) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.Hex(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.sessionTTL)),
		},
		Email:   user.Email,
		Purpose: PurposeSession,
	}

	return i.sign(claims, i.secret)
}

// IssueEmailVerification creates a token proving control of an email
// address before any account exists. It returns the token together with
// its JTI so callers can stage state keyed by it.
func (i *TokenIssuer) IssueEmailVerification(email string) (string, string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", "", err
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.emailTTL)),
		},
		Email:   email,
		Purpose: PurposeEmailVerification,
	}

	token, err := i.sign(claims, i.secret)
	if err != nil {
		return "", "", err
	}

	return token, jti, nil
}

// IssuePasswordReset creates a reset token for an existing user. The token
// is signed with a key derived from the user's current credential hash, so
// changing the password invalidates every outstanding reset token at once.
func (i *TokenIssuer) IssuePasswordReset(user *model.User) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", err
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID.Hex(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.resetTTL)),
		},
		Email:   user.Email,
		Purpose: PurposePasswordReset,
	}

	return i.sign(claims, i.resetSigningKey(user.PasswordHash))
}

// VerifySession validates a session token. Expiry is enforced with a
// five-minute leeway to tolerate clock skew between issuer and verifier.
func (i *TokenIssuer) VerifySession(token string) (*Claims, error) {
	return i.verify(token, PurposeSession, i.secret, sessionLeeway)
}

// VerifyEmailVerification validates an email-verification token. No leeway.
func (i *TokenIssuer) VerifyEmailVerification(token string) (*Claims, error) {
	return i.verify(token, PurposeEmailVerification, i.secret, 0)
}

// VerifyPasswordReset validates a reset token against the user's current
// credential state. A token minted before a completed reset fails here
// because the derived key no longer matches.
func (i *TokenIssuer) VerifyPasswordReset(token string, user *model.User) (*Claims, error) {
	return i.verify(token, PurposePasswordReset, i.resetSigningKey(user.PasswordHash), 0)
}

func (i *TokenIssuer) sign(claims Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(key)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// verify recomputes the signature and checks purpose, issuer, audience, and
// expiry. A signature mismatch wins over expiry: a tampered token reports
// ErrTokenInvalid even when it is also stale.
func (i *TokenIssuer) verify(raw, purpose string, key []byte, leeway time.Duration) (*Claims, error) {
	keyFunc := func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(raw, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (i *TokenIssuer) resetSigningKey(passwordHash string) []byte {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(passwordHash))
	return mac.Sum(nil)
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenInvalid
	}
}

// generateJTI draws a 256-bit random token id. Used for the email token
// kinds, where the JTI doubles as a staging-store key and must be
// collision-free.
func generateJTI() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
