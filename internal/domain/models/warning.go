package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Warning is a moderator warning issued to a user.
type Warning struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	IssuedBy  primitive.ObjectID `bson:"issued_by" json:"issued_by"`
	Reason    string             `bson:"reason" json:"reason"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
