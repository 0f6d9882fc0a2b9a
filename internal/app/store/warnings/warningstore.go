package warningstore

import (
	"context"
	"time"

	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_warnings")}
}

func (s *Store) Create(ctx context.Context, w models.Warning) (models.Warning, error) {
	w.ID = primitive.NewObjectID()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.Warning{}, err
	}
	return w, nil
}

// ListByUser returns the warnings issued to userID, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Warning, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Warning{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
