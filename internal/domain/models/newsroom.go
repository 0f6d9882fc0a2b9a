package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Newsroom is an editorial channel. Editors and the creator may publish.
type Newsroom struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	CreatorID primitive.ObjectID   `bson:"creator_id" json:"creator_id"`
	Editors   []primitive.ObjectID `bson:"editors" json:"editors"`
	Followers []primitive.ObjectID `bson:"followers" json:"followers"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewsPost is an editorial post published in a newsroom.
type NewsPost struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NewsroomID primitive.ObjectID `bson:"newsroom_id" json:"newsroom_id"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
