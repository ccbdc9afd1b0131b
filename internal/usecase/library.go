package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Tsaleem123/game-inventory-backend/internal/model"
	"github.com/Tsaleem123/game-inventory-backend/internal/repository"
)

// LibraryUsecase defines the business logic for a user's game library.
type LibraryUsecase interface {
	AddGame(ctx context.Context, userID bson.ObjectID, params AddGameParams) (*model.GameEntry, error)
	ListGames(ctx context.Context, userID bson.ObjectID, params ListGamesParams) ([]*model.GameEntry, error)
	UpdateGame(ctx context.Context, userID bson.ObjectID, id string, params UpdateGameParams) (*model.GameEntry, error)
	RemoveGame(ctx context.Context, userID bson.ObjectID, id string) error
}

// AddGameParams defines the parameters for adding a game to the library.
type AddGameParams struct {
	GameID      int64
	Title       string
	CoverURL    string
	ReleaseDate string
	Status      model.GameStatus
	Rating      int
	Notes       string
}

// ListGamesParams defines the parameters for filtering the library.
type ListGamesParams struct {
	Status *model.GameStatus
}

// UpdateGameParams defines the optional parameters for updating an entry.
// Only the fields that are not nil will be updated.
type UpdateGameParams struct {
	Status *model.GameStatus
	Rating *int
	Notes  *string
}

var (
	ErrGameAlreadyAdded  = errors.New("game already in library")
	ErrGameNotFound      = errors.New("game entry not found")
	ErrInvalidGameStatus = errors.New("invalid game status")
	ErrInvalidRating     = errors.New("rating must be between 0 and 10")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
)

type libraryUsecase struct {
	entryRepo repository.GameEntryRepository
}

// NewLibraryUsecase creates a new instance of LibraryUsecase.
func NewLibraryUsecase(entryRepo repository.GameEntryRepository) LibraryUsecase {
	return &libraryUsecase{entryRepo: entryRepo}
}

func (u *libraryUsecase) AddGame(
	ctx context.Context,
	userID bson.ObjectID,
	params AddGameParams,
) (*model.GameEntry, error) {
	status := params.Status
	if status == "" {
		status = model.GameStatusBacklog
	}
	if !status.Valid() {
		return nil, ErrInvalidGameStatus
	}
	if params.Rating < 0 || params.Rating > 10 {
		return nil, ErrInvalidRating
	}

	entry, err := u.entryRepo.CreateEntry(ctx, &model.GameEntry{
		UserID:      userID,
		GameID:      params.GameID,
		Title:       params.Title,
		CoverURL:    params.CoverURL,
		ReleaseDate: params.ReleaseDate,
		Status:      status,
		Rating:      params.Rating,
		Notes:       params.Notes,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrGameAlreadyAdded
		}
		return nil, err
	}

	return entry, nil
}

func (u *libraryUsecase) ListGames(
	ctx context.Context,
	userID bson.ObjectID,
	params ListGamesParams,
) ([]*model.GameEntry, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, ErrInvalidGameStatus
	}

	return u.entryRepo.ListEntries(ctx, userID, repository.FilterEntriesParams{
		Status: params.Status,
	})
}

func (u *libraryUsecase) UpdateGame(
	ctx context.Context,
	userID bson.ObjectID,
	id string,
	params UpdateGameParams,
) (*model.GameEntry, error) {
	if params.Status == nil && params.Rating == nil && params.Notes == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if params.Status != nil && !params.Status.Valid() {
		return nil, ErrInvalidGameStatus
	}
	if params.Rating != nil && (*params.Rating < 0 || *params.Rating > 10) {
		return nil, ErrInvalidRating
	}

	entry, err := u.entryRepo.UpdateEntry(ctx, userID, id, repository.UpdateEntryParams{
		Status: params.Status,
		Rating: params.Rating,
		Notes:  params.Notes,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	return entry, nil
}

func (u *libraryUsecase) RemoveGame(ctx context.Context, userID bson.ObjectID, id string) error {
	if _, err := u.entryRepo.DeleteEntry(ctx, userID, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrGameNotFound
		}
		return err
	}

	return nil
}
