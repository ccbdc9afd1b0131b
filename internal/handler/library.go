package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Tsaleem123/game-inventory-backend/internal/middleware"
	"github.com/Tsaleem123/game-inventory-backend/internal/model"
	"github.com/Tsaleem123/game-inventory-backend/internal/payload"
	"github.com/Tsaleem123/game-inventory-backend/internal/usecase"
	"github.com/Tsaleem123/game-inventory-backend/internal/validation"
)

// LibraryHandler serves the game library endpoints.
type LibraryHandler struct {
	libraryUsecase usecase.LibraryUsecase
	validator      *validation.Validator
	logger         *zerolog.Logger
}

// NewLibraryHandler creates a new LibraryHandler instance.
func NewLibraryHandler(
	libraryUsecase usecase.LibraryUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *LibraryHandler {
	return &LibraryHandler{
		libraryUsecase: libraryUsecase,
		validator:      validator,
		logger:         logger,
	}
}

func (h *LibraryHandler) AddGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session claims")
		return
	}

	var req payload.AddGameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if fields := h.validator.ValidateStruct(req); fields != nil {
		respondValidationError(w, fields)
		return
	}

	entry, err := h.libraryUsecase.AddGame(r.Context(), userID, usecase.AddGameParams{
		GameID:      req.GameID,
		Title:       req.Title,
		CoverURL:    req.CoverURL,
		ReleaseDate: req.ReleaseDate,
		Status:      model.GameStatus(req.Status),
		Rating:      req.Rating,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrGameAlreadyAdded):
			respondError(w, http.StatusConflict, "game_already_added", "this game is already in your library")
		case errors.Is(err, usecase.ErrInvalidGameStatus):
			respondError(w, http.StatusBadRequest, "invalid_status", "invalid game status")
		case errors.Is(err, usecase.ErrInvalidRating):
			respondError(w, http.StatusBadRequest, "invalid_rating", "rating must be between 0 and 10")
		default:
			h.logger.Error().Err(err).Msg("failed to add game")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusCreated, payload.NewGameEntryResponse(entry))
}

func (h *LibraryHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session claims")
		return
	}

	var params usecase.ListGamesParams
	if status := r.URL.Query().Get("status"); status != "" {
		gameStatus := model.GameStatus(status)
		params.Status = &gameStatus
	}

	entries, err := h.libraryUsecase.ListGames(r.Context(), userID, params)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidGameStatus):
			respondError(w, http.StatusBadRequest, "invalid_status", "invalid game status")
		default:
			h.logger.Error().Err(err).Msg("failed to list games")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.NewListGamesResponse(entries))
}

func (h *LibraryHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session claims")
		return
	}

	var req payload.UpdateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if fields := h.validator.ValidateStruct(req); fields != nil {
		respondValidationError(w, fields)
		return
	}

	params := usecase.UpdateGameParams{
		Rating: req.Rating,
		Notes:  req.Notes,
	}
	if req.Status != nil {
		gameStatus := model.GameStatus(*req.Status)
		params.Status = &gameStatus
	}

	entry, err := h.libraryUsecase.UpdateGame(r.Context(), userID, chi.URLParam(r, "id"), params)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrGameNotFound):
			respondError(w, http.StatusNotFound, "game_not_found", "game entry not found")
		case errors.Is(err, usecase.ErrNoFieldsToUpdate):
			respondError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		case errors.Is(err, usecase.ErrInvalidGameStatus):
			respondError(w, http.StatusBadRequest, "invalid_status", "invalid game status")
		case errors.Is(err, usecase.ErrInvalidRating):
			respondError(w, http.StatusBadRequest, "invalid_rating", "rating must be between 0 and 10")
		default:
			h.logger.Error().Err(err).Msg("failed to update game")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.NewGameEntryResponse(entry))
}

func (h *LibraryHandler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session claims")
		return
	}

	err := h.libraryUsecase.RemoveGame(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrGameNotFound):
			respondError(w, http.StatusNotFound, "game_not_found", "game entry not found")
		default:
			h.logger.Error().Err(err).Msg("failed to remove game")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
