package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Tsaleem123/game-inventory-backend/internal/catalog"
	"github.com/Tsaleem123/game-inventory-backend/internal/config"
	"github.com/Tsaleem123/game-inventory-backend/internal/model"
	"github.com/Tsaleem123/game-inventory-backend/internal/repository"
)

// CatalogUsecase defines the business logic for catalog search.
type CatalogUsecase interface {
	// SearchGames returns catalog matches for the query, served from the
	// cache when a fresh page is available.
	SearchGames(ctx context.Context, query string, page int) (*catalog.SearchResult, error)
}

// CatalogSearcher is the part of the catalog client the usecase needs.
type CatalogSearcher interface {
	Search(ctx context.Context, query string, page int) (*catalog.SearchResult, error)
}

var ErrCatalogUnavailable = errors.New("game catalog unavailable")

type catalogUsecase struct {
	client    CatalogSearcher
	cacheRepo repository.SearchCacheRepository
	cfg       *config.Config
	logger    *zerolog.Logger
}

// NewCatalogUsecase creates a new instance of CatalogUsecase.
func NewCatalogUsecase(
	client CatalogSearcher,
	cacheRepo repository.SearchCacheRepository,
	cfg *config.Config,
	logger *zerolog.Logger,
) CatalogUsecase {
	return &catalogUsecase{
		client:    client,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

func (u *catalogUsecase) SearchGames(ctx context.Context, query string, page int) (*catalog.SearchResult, error) {
	if page < 1 {
		page = 1
	}
	key := searchCacheKey(query, page)

	// Cache failures never fail the search, they only cost an API call.
	cached, err := u.cacheRepo.Get(ctx, key)
	if err == nil {
		return &catalog.SearchResult{
			Total: cached.Total,
			Games: cached.Results,
		}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		u.logger.Warn().Err(err).Msg("failed to read search cache")
	}

	result, err := u.client.Search(ctx, query, page)
	if err != nil {
		u.logger.Error().Err(err).Str("query", query).Msg("catalog search failed")
		return nil, ErrCatalogUnavailable
	}

	if err := u.cacheRepo.Put(ctx, &model.CachedSearch{
		Key:       key,
		Results:   result.Games,
		Total:     result.Total,
		ExpiresAt: time.Now().Add(u.cfg.Catalog.CacheTTL),
	}); err != nil {
		u.logger.Warn().Err(err).Msg("failed to write search cache")
	}

	return result, nil
}

// searchCacheKey normalizes the query so trivially different spellings of
// the same search share a cache entry.
func searchCacheKey(query string, page int) string {
	return fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(query)), page)
}
