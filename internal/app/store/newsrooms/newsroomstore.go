package newsroomstore

import (
	"context"
	"strings"
	"time"

	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("newsrooms")}
}

// GetByID loads a newsroom. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Newsroom, error) {
	var n models.Newsroom
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return models.Newsroom{}, err
	}
	return n, nil
}

func (s *Store) Create(ctx context.Context, n models.Newsroom) (models.Newsroom, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.Name = strings.TrimSpace(n.Name)
	if n.Editors == nil {
		n.Editors = []primitive.ObjectID{}
	}
	if n.Followers == nil {
		n.Followers = []primitive.ObjectID{}
	}
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Newsroom{}, err
	}
	return n, nil
}

// RemoveUser drops userID from every newsroom's editors and followers.
// Newsrooms the user created are left in place.
func (s *Store) RemoveUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"editors": userID},
			bson.M{"followers": userID},
		}},
		bson.M{
			"$pull": bson.M{"editors": userID, "followers": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
