package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Tsaleem123/game-inventory-backend/internal/config"
	"github.com/Tsaleem123/game-inventory-backend/internal/payload"
	"github.com/Tsaleem123/game-inventory-backend/internal/usecase"
	"github.com/Tsaleem123/game-inventory-backend/internal/validation"
)

// PasswordResetHandler serves the password reset endpoints.
type PasswordResetHandler struct {
	passwordResetUsecase usecase.PasswordResetUsecase
	validator            *validation.Validator
	cfg                  *config.Config
	logger               *zerolog.Logger
}

// NewPasswordResetHandler creates a new PasswordResetHandler instance.
func NewPasswordResetHandler(
	passwordResetUsecase usecase.PasswordResetUsecase,
	validator *validation.Validator,
	cfg *config.Config,
	logger *zerolog.Logger,
) *PasswordResetHandler {
	return &PasswordResetHandler{
		passwordResetUsecase: passwordResetUsecase,
		validator:            validator,
		cfg:                  cfg,
		logger:               logger,
	}
}

func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if fields := h.validator.ValidateStruct(req); fields != nil {
		respondValidationError(w, fields)
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error().Err(err).Msg("failed to request password reset")
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		return
	}

	// The acknowledgement is identical whether or not an account exists.
	respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "if an account exists for this email, a reset link has been sent",
	})
}

// RedirectReset forwards a reset link opened against the API to the
// frontend reset page, preserving the token and email.
func (h *PasswordResetHandler) RedirectReset(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	email := r.URL.Query().Get("email")
	if token == "" || email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "token and email are required")
		return
	}

	redirectURL := fmt.Sprintf(
		"%s?token=%s&email=%s",
		h.cfg.App.PasswordResetURL,
		url.QueryEscape(token),
		url.QueryEscape(email),
	)

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if fields := h.validator.ValidateStruct(req); fields != nil {
		respondValidationError(w, fields)
		return
	}

	err := h.passwordResetUsecase.ResetPassword(r.Context(), usecase.ResetPasswordParams{
		Email:       req.Email,
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidResetRequest):
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid password reset request")
		case errors.Is(err, usecase.ErrInvalidResetToken):
			respondError(w, http.StatusBadRequest, "invalid_or_expired_token", "password reset token is invalid or has expired")
		default:
			h.logger.Error().Err(err).Msg("failed to reset password")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "password has been reset, you can now sign in",
	})
}
