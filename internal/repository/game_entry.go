package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Tsaleem123/game-inventory-backend/internal/model"
)

// GameEntryRepository defines the interface for library persistence. Every
// operation is scoped to the owning user.
type GameEntryRepository interface {
	CreateEntry(ctx context.Context, entry *model.GameEntry) (*model.GameEntry, error)
	GetEntry(ctx context.Context, userID bson.ObjectID, id string) (*model.GameEntry, error)
	ListEntries(ctx context.Context, userID bson.ObjectID, params FilterEntriesParams) ([]*model.GameEntry, error)
	UpdateEntry(ctx context.Context, userID bson.ObjectID, id string, params UpdateEntryParams) (*model.GameEntry, error)
	DeleteEntry(ctx context.Context, userID bson.ObjectID, id string) (*model.GameEntry, error)
}

// UpdateEntryParams defines the optional parameters for updating an entry.
// Only the fields that are not nil will be updated.
type UpdateEntryParams struct {
	Status *model.GameStatus
	Rating *int
	Notes  *string
}

// FilterEntriesParams defines the parameters for filtering a user's library.
type FilterEntriesParams struct {
	Status *model.GameStatus
}

const gameEntryCollection = "game_entries"

type gameEntryMongoRepository struct {
	db *mongo.Database
}

// NewGameEntryMongoRepository creates the MongoDB library repository with a
// compound unique index so a user holds at most one entry per catalog game.
func NewGameEntryMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) GameEntryRepository {
	collection := db.Collection(gameEntryCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "game_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create game entry indexes")
	}

	return &gameEntryMongoRepository{db: db}
}

func (r *gameEntryMongoRepository) CreateEntry(ctx context.Context, entry *model.GameEntry) (*model.GameEntry, error) {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.db.Collection(gameEntryCollection).InsertOne(ctx, entry)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		entry.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return entry, nil
}

func (r *gameEntryMongoRepository) GetEntry(
	ctx context.Context,
	userID bson.ObjectID,
	id string,
) (*model.GameEntry, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	result := r.db.Collection(gameEntryCollection).FindOne(ctx, bson.M{
		"_id":     objectID,
		"user_id": userID,
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var entry model.GameEntry
	if err := result.Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *gameEntryMongoRepository) ListEntries(
	ctx context.Context,
	userID bson.ObjectID,
	params FilterEntriesParams,
) ([]*model.GameEntry, error) {
	filter := bson.M{"user_id": userID}
	if params.Status != nil {
		filter["status"] = *params.Status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(gameEntryCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.GameEntry
	for cursor.Next(ctx) {
		var entry model.GameEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *gameEntryMongoRepository) UpdateEntry(
	ctx context.Context,
	userID bson.ObjectID,
	id string,
	params UpdateEntryParams,
) (*model.GameEntry, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	// Build update query
	updateMap := bson.M{}
	if params.Status != nil {
		updateMap["status"] = *params.Status
	}
	if params.Rating != nil {
		updateMap["rating"] = *params.Rating
	}
	if params.Notes != nil {
		updateMap["notes"] = *params.Notes
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no entry fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(gameEntryCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "user_id": userID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var entry model.GameEntry
	if err := result.Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *gameEntryMongoRepository) DeleteEntry(
	ctx context.Context,
	userID bson.ObjectID,
	id string,
) (*model.GameEntry, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	result := r.db.Collection(gameEntryCollection).FindOneAndDelete(ctx, bson.M{
		"_id":     objectID,
		"user_id": userID,
	})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var entry model.GameEntry
	if err := result.Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}
