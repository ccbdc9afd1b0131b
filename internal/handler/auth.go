package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Tsaleem123/game-inventory-backend/internal/payload"
	"github.com/Tsaleem123/game-inventory-backend/internal/usecase"
	"github.com/Tsaleem123/game-inventory-backend/internal/validation"
)

// AuthHandler serves the registration, confirmation, and login endpoints.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validation.Validator
	logger      *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if fields := h.validator.ValidateStruct(req); fields != nil {
		respondValidationError(w, fields)
		return
	}

	err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			respondError(w, http.StatusBadRequest, "user_already_exists", "an account with this email already exists")
		default:
			h.logger.Error().Err(err).Msg("failed to register user")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "a confirmation link has been sent to your email address",
	})
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	err := h.authUsecase.ConfirmEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidOrExpiredLink):
			respondError(w, http.StatusBadRequest, "invalid_or_expired_link", "confirmation link is invalid or has expired")
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			respondError(w, http.StatusBadRequest, "user_already_exists", "an account with this email already exists")
		default:
			h.logger.Error().Err(err).Msg("failed to confirm email")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "email confirmed, you can now sign in",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if fields := h.validator.ValidateStruct(req); fields != nil {
		respondValidationError(w, fields)
		return
	}

	token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			respondError(w, http.StatusUnauthorized, "account_not_found", "no account found for this email")
		case errors.Is(err, usecase.ErrEmailNotVerified):
			respondError(w, http.StatusUnauthorized, "email_not_verified", "please confirm your email address before signing in")
		case errors.Is(err, usecase.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		default:
			h.logger.Error().Err(err).Msg("failed to log in user")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.LoginResponse{Token: token})
}
