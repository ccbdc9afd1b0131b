package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/config"
	"github.com/Tsaleem123/game-inventory-backend/internal/model"
	"github.com/Tsaleem123/game-inventory-backend/internal/repository"
	"github.com/Tsaleem123/game-inventory-backend/internal/security"
)

// AuthUsecase defines the business logic for registration, email
// confirmation, and login.
type AuthUsecase interface {
	// Register stages a registration and sends a confirmation email. No
	// account exists until the link is followed.
	Register(ctx context.Context, params RegisterParams) error

	// ConfirmEmail consumes a confirmation link token and creates the
	// verified account.
	ConfirmEmail(ctx context.Context, token string) error

	// Login checks credentials and returns a session token.
	Login(ctx context.Context, params LoginParams) (string, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// EmailSender is the part of the mailer the auth workflows use.
type EmailSender interface {
	SendHTML(ctx context.Context, to []string, subject, htmlBody string) error
}

// mailSendTimeout caps the synchronous SMTP exchange so a slow provider
// cannot stall a request past a bounded budget.
const mailSendTimeout = 15 * time.Second

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrInvalidOrExpiredLink = errors.New("confirmation link is invalid or has expired")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

type authUsecase struct {
	userRepo    repository.UserRepository
	pendingRepo repository.PendingRegistrationRepository
	tokenIssuer *auth.TokenIssuer
	mailer      EmailSender
	cfg         *config.Config
	logger      *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	pendingRepo repository.PendingRegistrationRepository,
	tokenIssuer *auth.TokenIssuer,
	mailer EmailSender,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		tokenIssuer: tokenIssuer,
		mailer:      mailer,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) error {
	email := normalizeEmail(params.Email)

	// Fast-path duplicate check. The unique email index is the real guard;
	// this only spares the user a pointless confirmation mail.
	if _, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return err
	}

	tokenStr, jti, err := u.tokenIssuer.IssueEmailVerification(email)
	if err != nil {
		return err
	}

	pending := &model.PendingRegistration{
		Token:        jti,
		Email:        email,
		PasswordHash: passwordHash,
		ExpiresAt:    time.Now().Add(u.cfg.Token.EmailTokenExpiresIn),
	}

	if err := u.pendingRepo.Create(ctx, pending); err != nil {
		return err
	}

	// Send email with the confirmation link
	confirmLink := fmt.Sprintf("%s?token=%s", u.cfg.App.EmailConfirmURL, tokenStr)
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>Thanks for signing up. Please confirm your email address by clicking the link below:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s.</p>
		<p>If you did not create an account, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>Game Inventory Team</p>
	`, confirmLink, confirmLink, u.cfg.Token.EmailTokenExpiresIn)

	sendCtx, cancel := context.WithTimeout(ctx, mailSendTimeout)
	defer cancel()

	if err := u.mailer.SendHTML(sendCtx, []string{email}, "Confirm your email address", htmlBody); err != nil {
		return err
	}

	return nil
}

func (u *authUsecase) ConfirmEmail(ctx context.Context, token string) error {
	// Signature, purpose, and expiry failures all collapse into the same
	// answer so the link reveals nothing about why it was rejected.
	claims, err := u.tokenIssuer.VerifyEmailVerification(token)
	if err != nil {
		return ErrInvalidOrExpiredLink
	}

	pending, err := u.pendingRepo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOrExpiredLink
		}
		return err
	}

	// The address may have been claimed since the link was issued.
	if _, err := u.userRepo.GetUserByEmail(ctx, pending.Email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return err
	}

	if err := u.userRepo.MarkVerified(ctx, user.ID.Hex()); err != nil {
		return err
	}

	// The account exists now, so a failed removal only leaves a dead row
	// behind; the TTL sweep collects it.
	if err := u.pendingRepo.Delete(ctx, pending.Token); err != nil {
		u.logger.Warn().Err(err).Msg("failed to delete pending registration")
	}

	return nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, error) {
	email := normalizeEmail(params.Email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !user.Verified {
		return "", ErrEmailNotVerified
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	if err := u.userRepo.UpdateLastLogin(ctx, user.ID.Hex()); err != nil {
		u.logger.Warn().Err(err).Msg("failed to update last login")
	}

	return u.tokenIssuer.IssueSession(user)
}

// normalizeEmail trims surrounding whitespace and lowercases the address so
// lookups, uniqueness, and token claims all agree on one spelling.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
