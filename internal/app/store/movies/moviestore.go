package moviestore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("movies")}
}

// GetByID loads a movie. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Movie, error) {
	var m models.Movie
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Movie{}, err
	}
	return m, nil
}

// Create inserts a catalog entry. AverageRating always starts at 0.
func (s *Store) Create(ctx context.Context, m models.Movie) (models.Movie, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.TitleCI = text.Fold(m.Title)
	m.AverageRating = 0
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Movie{}, err
	}
	return m, nil
}

// SetAverageRating overwrites the derived average. Last writer wins.
func (s *Store) SetAverageRating(ctx context.Context, id primitive.ObjectID, avg float64) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"average_rating": avg,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
