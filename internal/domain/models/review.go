package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds for Review.Rating (inclusive).
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// Review is one author's review of one movie. At most one per (author, movie).
type Review struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID     primitive.ObjectID   `bson:"author_id" json:"author_id"`
	MovieID      primitive.ObjectID   `bson:"movie_id" json:"movie_id"`
	Rating       float64              `bson:"rating" json:"rating"`
	Text         string               `bson:"text" json:"text"`
	Spoiler      bool                 `bson:"spoiler" json:"spoiler"`
	HelpfulVotes []primitive.ObjectID `bson:"helpful_votes" json:"helpful_votes"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
