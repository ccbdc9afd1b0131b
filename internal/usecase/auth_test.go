package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/config"
	"github.com/Tsaleem123/game-inventory-backend/internal/model"
	"github.com/Tsaleem123/game-inventory-backend/internal/security"
)

type authFixture struct {
	users   *fakeUserRepo
	pending *fakePendingRepo
	mailer  *fakeMailer
	issuer  *auth.TokenIssuer
	cfg     *config.Config
	uc      AuthUsecase
}

func newAuthFixture(opts ...auth.IssuerOption) *authFixture {
	cfg := newTestConfig()
	users := newFakeUserRepo()
	pending := newFakePendingRepo()
	mailer := &fakeMailer{}
	issuer := newIssuerFromConfig(cfg, opts...)

	return &authFixture{
		users:   users,
		pending: pending,
		mailer:  mailer,
		issuer:  issuer,
		cfg:     cfg,
		uc:      NewAuthUsecase(users, pending, issuer, mailer, cfg, nopLogger()),
	}
}

var tokenParamRe = regexp.MustCompile(`token=([^"&\s]+)`)

// lastMailedToken pulls the confirmation token out of the most recent email.
func lastMailedToken(t *testing.T, mailer *fakeMailer) string {
	t.Helper()
	require.NotEmpty(t, mailer.sent)

	matches := tokenParamRe.FindStringSubmatch(mailer.sent[len(mailer.sent)-1].body)
	require.Len(t, matches, 2)

	return matches[1]
}

func registerAndConfirm(t *testing.T, fix *authFixture, email, password string) *model.User {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, fix.uc.Register(ctx, RegisterParams{Email: email, Password: password}))
	require.NoError(t, fix.uc.ConfirmEmail(ctx, lastMailedToken(t, fix.mailer)))

	user, err := fix.users.GetUserByEmail(ctx, email)
	require.NoError(t, err)

	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stages a pending registration and emails the link", func(t *testing.T) {
		fix := newAuthFixture()

		err := fix.uc.Register(ctx, RegisterParams{Email: "new@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		// No account yet, only a staged registration.
		_, err = fix.users.GetUserByEmail(ctx, "new@example.com")
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
		require.Len(t, fix.pending.pending, 1)

		require.Len(t, fix.mailer.sent, 1)
		assert.Equal(t, []string{"new@example.com"}, fix.mailer.sent[0].to)
		assert.Contains(t, fix.mailer.sent[0].body, fix.cfg.App.EmailConfirmURL+"?token=")

		// The mailed token's jti keys the staged row, and the staged hash
		// verifies the chosen password.
		claims, err := fix.issuer.VerifyEmailVerification(lastMailedToken(t, fix.mailer))
		require.NoError(t, err)

		staged, ok := fix.pending.pending[claims.ID]
		require.True(t, ok)
		match, err := security.VerifyPassword("s3cret-pass", staged.PasswordHash)
		require.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("normalizes the email address", func(t *testing.T) {
		fix := newAuthFixture()

		err := fix.uc.Register(ctx, RegisterParams{Email: "  NewUser@Example.COM  ", Password: "s3cret-pass"})
		require.NoError(t, err)

		require.Len(t, fix.mailer.sent, 1)
		assert.Equal(t, []string{"newuser@example.com"}, fix.mailer.sent[0].to)

		for _, staged := range fix.pending.pending {
			assert.Equal(t, "newuser@example.com", staged.Email)
		}
	})

	t.Run("rejects an email that already has an account", func(t *testing.T) {
		fix := newAuthFixture()
		registerAndConfirm(t, fix, "taken@example.com", "s3cret-pass")
		mailsBefore := len(fix.mailer.sent)

		err := fix.uc.Register(ctx, RegisterParams{Email: "taken@example.com", Password: "another-pass"})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Len(t, fix.mailer.sent, mailsBefore)
	})

	t.Run("propagates mail transport failure", func(t *testing.T) {
		fix := newAuthFixture()
		fix.mailer.sendErr = errors.New("smtp connection refused")

		err := fix.uc.Register(ctx, RegisterParams{Email: "new@example.com", Password: "s3cret-pass"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "smtp connection refused")
	})

	t.Run("bounds the mail send with a deadline", func(t *testing.T) {
		fix := newAuthFixture()

		require.NoError(t, fix.uc.Register(ctx, RegisterParams{Email: "new@example.com", Password: "s3cret-pass"}))
		assert.True(t, fix.mailer.hasDeadline)
	})
}

func TestConfirmEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a verified account and consumes the link", func(t *testing.T) {
		fix := newAuthFixture()
		require.NoError(t, fix.uc.Register(ctx, RegisterParams{Email: "new@example.com", Password: "s3cret-pass"}))
		token := lastMailedToken(t, fix.mailer)

		require.NoError(t, fix.uc.ConfirmEmail(ctx, token))

		user, err := fix.users.GetUserByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.True(t, user.Verified)

		match, err := security.VerifyPassword("s3cret-pass", user.PasswordHash)
		require.NoError(t, err)
		assert.True(t, match)

		assert.Empty(t, fix.pending.pending)

		// The same link cannot be used twice.
		err = fix.uc.ConfirmEmail(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredLink)
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		fix := newAuthFixture()
		require.NoError(t, fix.uc.Register(ctx, RegisterParams{Email: "new@example.com", Password: "s3cret-pass"}))

		err := fix.uc.ConfirmEmail(ctx, lastMailedToken(t, fix.mailer)+"x")
		assert.ErrorIs(t, err, ErrInvalidOrExpiredLink)
	})

	t.Run("rejects an expired link", func(t *testing.T) {
		clock := &fakeClock{t: time.Now().Add(-16 * time.Minute)}
		fix := newAuthFixture(auth.WithClock(clock.Now))

		require.NoError(t, fix.uc.Register(ctx, RegisterParams{Email: "new@example.com", Password: "s3cret-pass"}))
		token := lastMailedToken(t, fix.mailer)

		// The link was issued sixteen minutes ago against a fifteen minute
		// lifetime.
		clock.t = time.Now()
		err := fix.uc.ConfirmEmail(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredLink)
	})

	t.Run("rejects a token with no staged registration", func(t *testing.T) {
		fix := newAuthFixture()

		orphan, _, err := fix.issuer.IssueEmailVerification("ghost@example.com")
		require.NoError(t, err)

		err = fix.uc.ConfirmEmail(ctx, orphan)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredLink)
	})

	t.Run("rejects when the address was claimed meanwhile", func(t *testing.T) {
		fix := newAuthFixture()
		require.NoError(t, fix.uc.Register(ctx, RegisterParams{Email: "contested@example.com", Password: "s3cret-pass"}))
		token := lastMailedToken(t, fix.mailer)

		// Another registration for the same address wins the race.
		_, err := fix.users.CreateUser(ctx, &model.User{
			Email:        "contested@example.com",
			PasswordHash: "other-hash",
			Verified:     true,
		})
		require.NoError(t, err)

		err = fix.uc.ConfirmEmail(ctx, token)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("maps a unique index conflict when the re-check misses", func(t *testing.T) {
		fix := newAuthFixture()
		require.NoError(t, fix.uc.Register(ctx, RegisterParams{Email: "contested@example.com", Password: "s3cret-pass"}))
		token := lastMailedToken(t, fix.mailer)

		_, err := fix.users.CreateUser(ctx, &model.User{
			Email:        "contested@example.com",
			PasswordHash: "other-hash",
			Verified:     true,
		})
		require.NoError(t, err)

		// The competing write lands between the re-check and the insert, so
		// only the duplicate key error at the insert catches it.
		fix.users.getErr = mongo.ErrNoDocuments

		err = fix.uc.ConfirmEmail(ctx, token)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a verifiable session token", func(t *testing.T) {
		fix := newAuthFixture()
		user := registerAndConfirm(t, fix, "player@example.com", "s3cret-pass")

		token, err := fix.uc.Login(ctx, LoginParams{Email: "player@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		claims, err := fix.issuer.VerifySession(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.Subject)
		assert.Equal(t, user.Email, claims.Email)

		assert.False(t, user.LastLoginAt.IsZero())
	})

	t.Run("accepts a differently cased email", func(t *testing.T) {
		fix := newAuthFixture()
		registerAndConfirm(t, fix, "player@example.com", "s3cret-pass")

		_, err := fix.uc.Login(ctx, LoginParams{Email: "Player@Example.com", Password: "s3cret-pass"})
		assert.NoError(t, err)
	})

	t.Run("unknown account", func(t *testing.T) {
		fix := newAuthFixture()

		_, err := fix.uc.Login(ctx, LoginParams{Email: "ghost@example.com", Password: "whatever1"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unverified account", func(t *testing.T) {
		fix := newAuthFixture()
		hash, err := security.HashPassword("s3cret-pass")
		require.NoError(t, err)
		_, err = fix.users.CreateUser(ctx, &model.User{Email: "pending@example.com", PasswordHash: hash})
		require.NoError(t, err)

		_, err = fix.uc.Login(ctx, LoginParams{Email: "pending@example.com", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("wrong password", func(t *testing.T) {
		fix := newAuthFixture()
		registerAndConfirm(t, fix, "player@example.com", "s3cret-pass")

		_, err := fix.uc.Login(ctx, LoginParams{Email: "player@example.com", Password: "not-the-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}
