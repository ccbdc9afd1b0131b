package payload

import (
	"time"

	"github.com/Tsaleem123/game-inventory-backend/internal/model"
)

type AddGameRequest struct {
	GameID      int64  `json:"game_id"      validate:"required"`
	Title       string `json:"title"        validate:"required"`
	CoverURL    string `json:"cover_url"    validate:"omitempty,url"`
	ReleaseDate string `json:"release_date"`
	Status      string `json:"status"       validate:"omitempty,oneof=backlog playing completed dropped"`
	Rating      int    `json:"rating"       validate:"min=0,max=10"`
	Notes       string `json:"notes"`
}

type UpdateGameRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=backlog playing completed dropped"`
	Rating *int    `json:"rating" validate:"omitempty,min=0,max=10"`
	Notes  *string `json:"notes"`
}

type GameEntryResponse struct {
	ID          string    `json:"id"`
	GameID      int64     `json:"game_id"`
	Title       string    `json:"title"`
	CoverURL    string    `json:"cover_url,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Status      string    `json:"status"`
	Rating      int       `json:"rating"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListGamesResponse struct {
	Entries []GameEntryResponse `json:"entries"`
}

// NewGameEntryResponse maps a library entry to its response shape.
func NewGameEntryResponse(entry *model.GameEntry) GameEntryResponse {
	return GameEntryResponse{
		ID:          entry.ID.Hex(),
		GameID:      entry.GameID,
		Title:       entry.Title,
		CoverURL:    entry.CoverURL,
		ReleaseDate: entry.ReleaseDate,
		Status:      string(entry.Status),
		Rating:      entry.Rating,
		Notes:       entry.Notes,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

// NewListGamesResponse maps library entries to the list response shape.
func NewListGamesResponse(entries []*model.GameEntry) ListGamesResponse {
	out := ListGamesResponse{Entries: make([]GameEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = append(out.Entries, NewGameEntryResponse(entry))
	}

	return out
}
