package payload

import "github.com/Tsaleem123/game-inventory-backend/internal/model"

type SearchGamesResponse struct {
	Total int                 `json:"total"`
	Games []model.CatalogGame `json:"games"`
}
