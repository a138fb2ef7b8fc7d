package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User — account document. The password hash never leaves the API; handlers
// blank it before encoding.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username"      json:"username"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"passwordHash"  json:"-"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
}
