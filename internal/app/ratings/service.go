// Package ratings keeps a movie's average rating and each author's diary in
// step with the review set.
//
// Every review write re-reads the movie's ratings and overwrites
// average_rating. There is no lock or version field: two concurrent writes
// for the same movie may race and the last recomputation wins.
package ratings

import (
	"context"
	"errors"
	"math"
	"time"

	reviewstore "github.com/reelcircle/reelcircle/internal/app/store/reviews"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Reviews is the review persistence the service needs.
type Reviews interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	FindByAuthorAndMovie(ctx context.Context, authorID, movieID primitive.ObjectID) (models.Review, error)
	Create(ctx context.Context, r models.Review) (models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, upd reviewstore.Update) (models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	RatingsForMovie(ctx context.Context, movieID primitive.ObjectID) ([]float64, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Review, error)
	SetHelpfulVote(ctx context.Context, id, voterID primitive.ObjectID, helpful bool) (models.Review, error)
}

// Movies is the movie persistence the service needs.
type Movies interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Movie, error)
	SetAverageRating(ctx context.Context, id primitive.ObjectID, avg float64) error
}

// Diaries writes diary entries on user records.
type Diaries interface {
	AppendDiaryEntry(ctx context.Context, userID primitive.ObjectID, e models.DiaryEntry) error
	ReplaceDiaryEntry(ctx context.Context, userID primitive.ObjectID, e models.DiaryEntry) (bool, error)
	RemoveDiaryEntry(ctx context.Context, userID, movieID primitive.ObjectID) error
}

// Service is the rating-consistency service. It is also the content source
// for reviews, so moderation deletes go through the same recompute path.
type Service struct {
	reviews Reviews
	movies  Movies
	diaries Diaries
	log     *zap.Logger

	// Now stamps diary watched_at. Tests may replace it.
	Now func() time.Time
}

func New(reviews Reviews, movies Movies, diaries Diaries, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reviews: reviews,
		movies:  movies,
		diaries: diaries,
		log:     logger,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Average is the unweighted mean of ratings rounded to two decimals.
// An empty set averages to 0.
func Average(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return math.Round(sum/float64(len(ratings))*100) / 100
}

func validRating(r float64) bool {
	return !math.IsNaN(r) && r >= models.MinRating && r <= models.MaxRating
}

func isNoDocs(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
