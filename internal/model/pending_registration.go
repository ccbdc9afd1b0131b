package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PendingRegistration holds a registration that is waiting for email
// confirmation. The row is keyed by the JTI of the verification token that
// was mailed to the user and disappears when ExpiresAt passes (TTL index).
// No User document exists until the registration is confirmed.
type PendingRegistration struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Token        string        `bson:"token"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	CreatedAt    time.Time     `bson:"created_at"`
	ExpiresAt    time.Time     `bson:"expires_at"`
}
