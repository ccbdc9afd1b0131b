package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a confirmed account in the authentication system.
// Users are only ever created through the email-confirmation step, so the
// email address is proven reachable before the document exists.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	Verified     bool          `bson:"verified"`
	LastLoginAt  time.Time     `bson:"last_login_at,omitempty"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}
