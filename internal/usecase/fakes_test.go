package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/config"
	"github.com/Tsaleem123/game-inventory-backend/internal/model"
	"github.com/Tsaleem123/game-inventory-backend/internal/repository"
)

// --- helpers ---

func newTestConfig() *config.Config {
	return &config.Config{
		Token: config.TokenConfig{
			Secret:                      "test-signing-secret",
			Issuer:                      "game-inventory-api",
			Audience:                    "game-inventory-api",
			SessionTokenExpiresIn:       24 * time.Hour,
			EmailTokenExpiresIn:         15 * time.Minute,
			PasswordResetTokenExpiresIn: 15 * time.Minute,
		},
		App: config.AppConfig{
			EmailConfirmURL:  "https://app.example.com/confirm-email",
			PasswordResetURL: "https://app.example.com/reset-password",
		},
		Catalog: config.CatalogConfig{
			CacheTTL: time.Hour,
		},
	}
}

func newIssuerFromConfig(cfg *config.Config, opts ...auth.IssuerOption) *auth.TokenIssuer {
	return auth.NewTokenIssuer(
		cfg.Token.Secret,
		cfg.Token.Issuer,
		cfg.Token.Audience,
		cfg.Token.SessionTokenExpiresIn,
		cfg.Token.EmailTokenExpiresIn,
		cfg.Token.PasswordResetTokenExpiresIn,
		opts...,
	)
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

// --- fakes ---

type fakeUserRepo struct {
	users map[string]*model.User // keyed by email

	createErr error
	getErr    error
	markErr   error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.users[user.Email]; exists {
		return nil, duplicateKeyError()
	}

	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.Email] = user

	return user, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (f *fakeUserRepo) MarkVerified(_ context.Context, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, user := range f.users {
		if user.ID.Hex() == id {
			user.Verified = true
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, user := range f.users {
		if user.ID.Hex() == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	for _, user := range f.users {
		if user.ID.Hex() == id {
			user.LastLoginAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type fakePendingRepo struct {
	pending map[string]*model.PendingRegistration // keyed by token

	createErr error
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{pending: make(map[string]*model.PendingRegistration)}
}

func (f *fakePendingRepo) Create(_ context.Context, pending *model.PendingRegistration) error {
	if f.createErr != nil {
		return f.createErr
	}
	pending.ID = bson.NewObjectID()
	pending.CreatedAt = time.Now()
	f.pending[pending.Token] = pending
	return nil
}

func (f *fakePendingRepo) Get(_ context.Context, token string) (*model.PendingRegistration, error) {
	pending, ok := f.pending[token]
	if !ok || time.Now().After(pending.ExpiresAt) {
		return nil, mongo.ErrNoDocuments
	}
	return pending, nil
}

func (f *fakePendingRepo) Delete(_ context.Context, token string) error {
	delete(f.pending, token)
	return nil
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sent        []sentEmail
	sendErr     error
	hasDeadline bool
}

func (f *fakeMailer) SendHTML(ctx context.Context, to []string, subject, htmlBody string) error {
	_, f.hasDeadline = ctx.Deadline()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.PendingRegistrationRepository = (*fakePendingRepo)(nil)
var _ EmailSender = (*fakeMailer)(nil)
