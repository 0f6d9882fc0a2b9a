package ratings

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/policy/reviewpolicy"
	reviewstore "github.com/reelcircle/reelcircle/internal/app/store/reviews"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/app/system/htmlsanitize"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReviewInput is a new review. Rating is required.
type ReviewInput struct {
	MovieID primitive.ObjectID
	Rating  *float64
	Text    string
	Spoiler bool
}

// ReviewPatch is a partial edit. Nil fields keep their current value.
type ReviewPatch struct {
	Rating  *float64
	Text    *string
	Spoiler *bool
}

// CreateReview persists a review, recomputes the movie average and appends
// the author's diary entry.
func (s *Service) CreateReview(ctx context.Context, authorID primitive.ObjectID, in ReviewInput) (rev models.Review, err error) {
	const op = "ratings.CreateReview"
	defer func() { RecordReviewWrite("create", err) }()

	switch {
	case authorID.IsZero():
		return models.Review{}, apperr.InvalidInput(op, "author is required")
	case in.MovieID.IsZero():
		return models.Review{}, apperr.InvalidInput(op, "movie is required")
	case in.Rating == nil:
		return models.Review{}, apperr.InvalidInput(op, "rating is required")
	case !validRating(*in.Rating):
		return models.Review{}, apperr.InvalidInput(op, "rating must be between 0 and 10")
	}

	if _, err := s.movies.GetByID(ctx, in.MovieID); err != nil {
		if isNoDocs(err) {
			return models.Review{}, apperr.NotFound(op, "movie")
		}
		return models.Review{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	if _, err := s.reviews.FindByAuthorAndMovie(ctx, authorID, in.MovieID); err == nil {
		return models.Review{}, apperr.E(apperr.KindDuplicateReview, op, "you have already reviewed this movie")
	} else if !isNoDocs(err) {
		return models.Review{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	rev, err = s.reviews.Create(ctx, models.Review{
		AuthorID: authorID,
		MovieID:  in.MovieID,
		Rating:   *in.Rating,
		Text:     htmlsanitize.PlainText(in.Text),
		Spoiler:  in.Spoiler,
	})
	if err != nil {
		// Lost a race with a concurrent create for the same pair.
		if errors.Is(err, reviewstore.ErrDuplicateReview) {
			return models.Review{}, apperr.E(apperr.KindDuplicateReview, op, "you have already reviewed this movie")
		}
		return models.Review{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	// The review is stored from here on, so follow-up failures are logged
	// and counted instead of returned; the next write to the movie or the
	// review re-derives both.
	s.settleCreated(ctx, op, rev)

	s.log.Info("review created",
		zap.String("review_id", rev.ID.Hex()),
		zap.String("movie_id", rev.MovieID.Hex()),
		zap.String("author_id", rev.AuthorID.Hex()))
	return rev, nil
}

// EditReview applies a partial update by the review's author.
func (s *Service) EditReview(ctx context.Context, actorID, reviewID primitive.ObjectID, p ReviewPatch) (rev models.Review, err error) {
	const op = "ratings.EditReview"
	defer func() { RecordReviewWrite("edit", err) }()

	cur, err := s.load(ctx, op, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if !reviewpolicy.CanMutate(actorID, &cur) {
		return models.Review{}, apperr.Forbidden(op, "only the author can edit this review")
	}
	if p.Rating != nil && !validRating(*p.Rating) {
		return models.Review{}, apperr.InvalidInput(op, "rating must be between 0 and 10")
	}

	upd := reviewstore.Update{Rating: p.Rating, Spoiler: p.Spoiler}
	if p.Text != nil {
		t := htmlsanitize.PlainText(*p.Text)
		upd.Text = &t
	}

	rev, err = s.reviews.Update(ctx, reviewID, upd)
	if err != nil {
		if isNoDocs(err) {
			return models.Review{}, apperr.NotFound(op, "review")
		}
		return models.Review{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	if _, err := s.Recompute(ctx, rev.MovieID); err != nil {
		return models.Review{}, err
	}
	if err := s.syncDiary(ctx, op, rev); err != nil {
		return models.Review{}, err
	}
	return rev, nil
}

// DeleteReview removes a review on behalf of its author and returns it.
func (s *Service) DeleteReview(ctx context.Context, actorID, reviewID primitive.ObjectID) (rev models.Review, err error) {
	const op = "ratings.DeleteReview"
	defer func() { RecordReviewWrite("delete", err) }()

	rev, err = s.load(ctx, op, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if !reviewpolicy.CanMutate(actorID, &rev) {
		return models.Review{}, apperr.Forbidden(op, "only the author can delete this review")
	}
	if err := s.remove(ctx, op, rev); err != nil {
		return models.Review{}, err
	}
	return rev, nil
}

// ToggleHelpful adds the actor's helpful vote, or removes it if present.
// Authors cannot vote on their own reviews.
func (s *Service) ToggleHelpful(ctx context.Context, actorID, reviewID primitive.ObjectID) (models.Review, error) {
	const op = "ratings.ToggleHelpful"

	rev, err := s.load(ctx, op, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if !reviewpolicy.CanVoteHelpful(actorID, &rev) {
		return models.Review{}, apperr.InvalidInput(op, "you cannot vote on your own review")
	}

	helpful := true
	for _, v := range rev.HelpfulVotes {
		if v == actorID {
			helpful = false
			break
		}
	}
	out, err := s.reviews.SetHelpfulVote(ctx, reviewID, actorID, helpful)
	if err != nil {
		if isNoDocs(err) {
			return models.Review{}, apperr.NotFound(op, "review")
		}
		return models.Review{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	return out, nil
}

// Recompute re-derives and stores the movie's average from its current
// reviews. A movie with no reviews averages 0.
func (s *Service) Recompute(ctx context.Context, movieID primitive.ObjectID) (float64, error) {
	const op = "ratings.Recompute"

	ratings, err := s.reviews.RatingsForMovie(ctx, movieID)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	avg := Average(ratings)
	if err := s.movies.SetAverageRating(ctx, movieID, avg); err != nil {
		if isNoDocs(err) {
			return 0, apperr.NotFound(op, "movie")
		}
		return 0, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	AverageRecomputesTotal.Inc()
	s.log.Debug("average recomputed",
		zap.String("movie_id", movieID.Hex()),
		zap.Int("reviews", len(ratings)),
		zap.Float64("average", avg))
	return avg, nil
}

func (s *Service) load(ctx context.Context, op string, id primitive.ObjectID) (models.Review, error) {
	rev, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if isNoDocs(err) {
			return models.Review{}, apperr.NotFound(op, "review")
		}
		return models.Review{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	return rev, nil
}

// settleCreated recomputes the movie average and writes the diary entry for
// a newly stored review, logging any failure.
func (s *Service) settleCreated(ctx context.Context, op string, rev models.Review) {
	if _, err := s.Recompute(ctx, rev.MovieID); err != nil {
		RecomputeFailuresTotal.Inc()
		s.log.Error("average recompute failed after review create",
			zap.String("review_id", rev.ID.Hex()),
			zap.String("movie_id", rev.MovieID.Hex()),
			zap.Error(err))
	}
	if err := s.syncDiary(ctx, op, rev); err != nil {
		s.log.Error("diary sync failed after review create",
			zap.String("review_id", rev.ID.Hex()),
			zap.String("author_id", rev.AuthorID.Hex()),
			zap.Error(err))
	}
}

// syncDiary writes the diary entry mirroring rev, replacing the existing
// entry for the movie when there is one.
func (s *Service) syncDiary(ctx context.Context, op string, rev models.Review) error {
	e := models.DiaryEntry{
		MovieID:    rev.MovieID,
		WatchedAt:  s.Now(),
		ReviewText: rev.Text,
		Rating:     rev.Rating,
	}
	replaced, err := s.diaries.ReplaceDiaryEntry(ctx, rev.AuthorID, e)
	if err == nil && !replaced {
		err = s.diaries.AppendDiaryEntry(ctx, rev.AuthorID, e)
	}
	if err != nil {
		DiarySyncFailuresTotal.Inc()
		if isNoDocs(err) {
			return apperr.NotFound(op, "author")
		}
		return apperr.Wrap(apperr.KindUnknown, op, err)
	}
	return nil
}

// remove deletes rev, recomputes its movie and drops the diary entry.
// A movie that no longer exists is not an error here.
func (s *Service) remove(ctx context.Context, op string, rev models.Review) error {
	n, err := s.reviews.Delete(ctx, rev.ID)
	if err != nil {
		return apperr.Wrap(apperr.KindUnknown, op, err)
	}
	if n == 0 {
		return apperr.NotFound(op, "review")
	}

	if _, err := s.Recompute(ctx, rev.MovieID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if err := s.diaries.RemoveDiaryEntry(ctx, rev.AuthorID, rev.MovieID); err != nil {
		DiarySyncFailuresTotal.Inc()
		return apperr.Wrap(apperr.KindUnknown, op, err)
	}
	return nil
}
