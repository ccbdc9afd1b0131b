package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// GameStatus tracks where a game sits in the owner's library.
type GameStatus string

const (
	GameStatusBacklog   GameStatus = "backlog"
	GameStatusPlaying   GameStatus = "playing"
	GameStatusCompleted GameStatus = "completed"
	GameStatusDropped   GameStatus = "dropped"
)

// Valid reports whether s is one of the known statuses.
func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusBacklog, GameStatusPlaying, GameStatusCompleted, GameStatusDropped:
		return true
	}
	return false
}

// GameEntry represents a single game tracked in a user's library.
// A user can hold at most one entry per catalog game.
type GameEntry struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	UserID      bson.ObjectID `bson:"user_id"`
	GameID      int64         `bson:"game_id"`
	Title       string        `bson:"title"`
	CoverURL    string        `bson:"cover_url,omitempty"`
	ReleaseDate string        `bson:"release_date,omitempty"`
	Status      GameStatus    `bson:"status"`
	Rating      int           `bson:"rating"`
	Notes       string        `bson:"notes,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}
