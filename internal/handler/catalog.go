package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Tsaleem123/game-inventory-backend/internal/payload"
	"github.com/Tsaleem123/game-inventory-backend/internal/usecase"
)

// CatalogHandler serves the catalog search endpoint.
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
	logger         *zerolog.Logger
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase, logger *zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		logger:         logger,
	}
}

func (h *CatalogHandler) SearchGames(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}

	page := 1
	if rawPage := r.URL.Query().Get("page"); rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid_request", "page must be a positive integer")
			return
		}
		page = parsed
	}

	result, err := h.catalogUsecase.SearchGames(r.Context(), query, page)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCatalogUnavailable):
			respondError(w, http.StatusBadGateway, "catalog_unavailable", "game catalog is currently unavailable")
		default:
			h.logger.Error().Err(err).Msg("failed to search catalog")
			respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.SearchGamesResponse{
		Total: result.Total,
		Games: result.Games,
	})
}
