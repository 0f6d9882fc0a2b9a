package reviewstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateReview is returned when the author already reviewed the movie.
// The unique (author_id, movie_id) index enforces it.
var ErrDuplicateReview = errors.New("a review by this author for this movie already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reviews")}
}

// Update holds the fields of a partial review edit. Nil fields are left alone.
type Update struct {
	Rating  *float64
	Text    *string
	Spoiler *bool
}

// GetByID loads a review. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var r models.Review
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

// FindByAuthorAndMovie returns mongo.ErrNoDocuments when the pair has no review.
func (s *Store) FindByAuthorAndMovie(ctx context.Context, authorID, movieID primitive.ObjectID) (models.Review, error) {
	var r models.Review
	if err := s.c.FindOne(ctx, bson.M{"author_id": authorID, "movie_id": movieID}).Decode(&r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

func (s *Store) Create(ctx context.Context, r models.Review) (models.Review, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	if r.HelpfulVotes == nil {
		r.HelpfulVotes = []primitive.ObjectID{}
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Review{}, ErrDuplicateReview
		}
		return models.Review{}, err
	}
	return r, nil
}

// Update applies a partial edit and returns the updated review.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Review, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	if upd.Text != nil {
		set["text"] = *upd.Text
	}
	if upd.Spoiler != nil {
		set["spoiler"] = *upd.Spoiler
	}
	var out models.Review
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.Review{}, err
	}
	return out, nil
}

// Delete removes a review by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RatingsForMovie returns the rating of every review currently referencing movieID.
func (s *Store) RatingsForMovie(ctx context.Context, movieID primitive.ObjectID) ([]float64, error) {
	cur, err := s.c.Find(ctx, bson.M{"movie_id": movieID},
		options.Find().SetProjection(bson.M{"rating": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []float64
	for cur.Next(ctx) {
		var row struct {
			Rating float64 `bson:"rating"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.Rating)
	}
	return out, cur.Err()
}

// ListByAuthor returns every review written by authorID.
func (s *Store) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Review, error) {
	cur, err := s.c.Find(ctx, bson.M{"author_id": authorID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Review
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetHelpfulVote adds or removes voterID from the review's helpful-votes set.
func (s *Store) SetHelpfulVote(ctx context.Context, id, voterID primitive.ObjectID, helpful bool) (models.Review, error) {
	op := "$pull"
	if helpful {
		op = "$addToSet"
	}
	var out models.Review
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{op: bson.M{"helpful_votes": voterID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return models.Review{}, err
	}
	return out, nil
}
