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

// PendingRegistrationRepository stages registrations between the register
// call and the email confirmation. Entries live at most their TTL; the
// store, not its callers, enforces expiry.
type PendingRegistrationRepository interface {
	// Create stores a pending registration keyed by its token.
	Create(ctx context.Context, pending *model.PendingRegistration) error

	// Get returns the pending registration for the token without mutating
	// it. Expired or unknown tokens yield mongo.ErrNoDocuments.
	Get(ctx context.Context, token string) (*model.PendingRegistration, error)

	// Delete removes the entry unconditionally. Deleting an absent token is
	// not an error.
	Delete(ctx context.Context, token string) error
}

const pendingRegistrationCollection = "pending_registrations"

type pendingRegistrationMongoRepository struct {
	db *mongo.Database
}

// NewPendingRegistrationMongoRepository creates the MongoDB repository for
// pending registrations. The expires_at TTL index makes Mongo sweep stale
// rows; Get filters on expires_at as well because the sweep is periodic.
func NewPendingRegistrationMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) PendingRegistrationRepository {
	collection := db.Collection(pendingRegistrationCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create pending registration indexes")
	}

	return &pendingRegistrationMongoRepository{db: db}
}

func (r *pendingRegistrationMongoRepository) Create(
	ctx context.Context,
	pending *model.PendingRegistration,
) error {
	pending.CreatedAt = time.Now()

	result, err := r.db.Collection(pendingRegistrationCollection).InsertOne(ctx, pending)
	if err != nil {
		return err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		pending.ID = objectID
	}

	return nil
}

func (r *pendingRegistrationMongoRepository) Get(
	ctx context.Context,
	token string,
) (*model.PendingRegistration, error) {
	filter := bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var pending model.PendingRegistration
	err := r.db.Collection(pendingRegistrationCollection).FindOne(ctx, filter).Decode(&pending)
	if err != nil {
		return nil, err
	}

	return &pending, nil
}

func (r *pendingRegistrationMongoRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Collection(pendingRegistrationCollection).DeleteOne(ctx, bson.M{"token": token})
	return err
}
