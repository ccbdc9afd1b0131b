package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Tsaleem123/game-inventory-backend/internal/auth"
	"github.com/Tsaleem123/game-inventory-backend/internal/config"
	"github.com/Tsaleem123/game-inventory-backend/internal/repository"
	"github.com/Tsaleem123/game-inventory-backend/internal/security"
)

// PasswordResetUsecase defines the business logic for password reset.
type PasswordResetUsecase interface {
	// RequestPasswordReset sends a reset link to the given email if an
	// account exists. It reports success either way.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword sets a new password after verifying the reset token
	// against the account's current credentials.
	ResetPassword(ctx context.Context, params ResetPasswordParams) error
}

// ResetPasswordParams defines the parameters for completing a password reset.
type ResetPasswordParams struct {
	Email       string
	Token       string
	NewPassword string
}

var (
	ErrInvalidResetRequest = errors.New("invalid password reset request")
	ErrInvalidResetToken   = errors.New("invalid or expired password reset token")
)

type passwordResetUsecase struct {
	userRepo    repository.UserRepository
	tokenIssuer *auth.TokenIssuer
	mailer      EmailSender
	cfg         *config.Config
	logger      *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	tokenIssuer *auth.TokenIssuer,
	mailer EmailSender,
	cfg *config.Config,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:    userRepo,
		tokenIssuer: tokenIssuer,
		mailer:      mailer,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// To prevent email enumeration, do not reveal that the email does not exist.
			return nil
		}
		return err
	}

	// The token is signed with a key derived from the current password
	// hash, so it needs no storage and dies with the next credential change.
	tokenStr, err := u.tokenIssuer.IssuePasswordReset(user)
	if err != nil {
		return err
	}

	// Send email with the reset link
	resetLink := fmt.Sprintf(
		"%s?token=%s&email=%s",
		u.cfg.App.PasswordResetURL,
		tokenStr,
		url.QueryEscape(user.Email),
	)
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>Game Inventory Team</p>
	`, resetLink, resetLink, u.cfg.Token.PasswordResetTokenExpiresIn)

	sendCtx, cancel := context.WithTimeout(ctx, mailSendTimeout)
	defer cancel()

	if err := u.mailer.SendHTML(sendCtx, []string{user.Email}, "Password Reset Request", htmlBody); err != nil {
		return err
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, params ResetPasswordParams) error {
	email := normalizeEmail(params.Email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidResetRequest
		}
		return err
	}

	// A token minted before any earlier reset fails here because the
	// derived key rotated with the hash. Single use falls out of the same
	// property once the new hash lands.
	if _, err := u.tokenIssuer.VerifyPasswordReset(params.Token, user); err != nil {
		return ErrInvalidResetToken
	}

	passwordHash, err := security.HashPassword(params.NewPassword)
	if err != nil {
		return err
	}

	if err := u.userRepo.UpdatePassword(ctx, user.ID.Hex(), passwordHash); err != nil {
		return err
	}

	return nil
}
