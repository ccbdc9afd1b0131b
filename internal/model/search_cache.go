package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CatalogGame is a single result returned by the external game catalog.
type CatalogGame struct {
	ID              int64   `bson:"id"               json:"id"`
	Name            string  `bson:"name"             json:"name"`
	Released        string  `bson:"released"         json:"released,omitempty"`
	BackgroundImage string  `bson:"background_image" json:"background_image,omitempty"`
	Rating          float64 `bson:"rating"           json:"rating"`
}

// CachedSearch stores one page of catalog search results so repeated
// queries do not hit the upstream API. Rows expire via TTL index.
type CachedSearch struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Key       string        `bson:"key"`
	Results   []CatalogGame `bson:"results"`
	Total     int           `bson:"total"`
	CreatedAt time.Time     `bson:"created_at"`
	ExpiresAt time.Time     `bson:"expires_at"`
}
