package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie is a catalog entry. AverageRating is derived from the current review
// set and is never authored directly.
type Movie struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	TitleCI       string             `bson:"title_ci" json:"-"`
	Year          int                `bson:"year,omitempty" json:"year,omitempty"`
	AverageRating float64            `bson:"average_rating" json:"average_rating"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
