package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Tsaleem123/game-inventory-backend/internal/model"
)

// SearchCacheRepository defines the interface for cached catalog search
// results. Entries expire via a TTL index on expires_at.
type SearchCacheRepository interface {
	Get(ctx context.Context, key string) (*model.CachedSearch, error)
	Put(ctx context.Context, cached *model.CachedSearch) error
}

const searchCacheCollection = "search_cache"

type searchCacheMongoRepository struct {
	db *mongo.Database
}

// NewSearchCacheMongoRepository creates the MongoDB search cache repository
// and its indexes.
func NewSearchCacheMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) SearchCacheRepository {
	collection := db.Collection(searchCacheCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create search cache indexes")
	}

	return &searchCacheMongoRepository{db: db}
}

func (r *searchCacheMongoRepository) Get(ctx context.Context, key string) (*model.CachedSearch, error) {
	// The TTL monitor only sweeps periodically, so expiry is also enforced
	// in the query itself.
	result := r.db.Collection(searchCacheCollection).FindOne(ctx, bson.M{
		"key":        key,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var cached model.CachedSearch
	if err := result.Decode(&cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

func (r *searchCacheMongoRepository) Put(ctx context.Context, cached *model.CachedSearch) error {
	cached.CreatedAt = time.Now()

	_, err := r.db.Collection(searchCacheCollection).ReplaceOne(
		ctx,
		bson.M{"key": cached.Key},
		cached,
		options.Replace().SetUpsert(true),
	)

	return err
}
