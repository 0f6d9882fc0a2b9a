package ratings

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Lookup implements content.Source for reviews. ScopeID is the movie.
func (s *Service) Lookup(ctx context.Context, id primitive.ObjectID) (content.Handle, error) {
	rev, err := s.load(ctx, "ratings.Lookup", id)
	if err != nil {
		return content.Handle{}, err
	}
	summary := rev.Text
	if rev.Spoiler {
		summary = "[spoiler] " + summary
	}
	return content.Handle{
		ID:        rev.ID,
		AuthorID:  rev.AuthorID,
		ScopeID:   rev.MovieID,
		Summary:   content.Excerpt(summary, content.SummaryLen),
		CreatedAt: rev.CreatedAt,
	}, nil
}

// Remove implements content.Source. It is the moderation delete path and
// skips the author check; the average and diary are kept consistent.
func (s *Service) Remove(ctx context.Context, id primitive.ObjectID) (err error) {
	const op = "ratings.Remove"
	defer func() { RecordReviewWrite("moderation_delete", err) }()

	rev, err := s.load(ctx, op, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, op, rev)
}

// RemoveByAuthor implements content.Source for the ban cascade. Reviews that
// disappear concurrently are skipped.
func (s *Service) RemoveByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	const op = "ratings.RemoveByAuthor"

	revs, err := s.reviews.ListByAuthor(ctx, authorID)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	var removed int64
	for _, rev := range revs {
		if err := s.remove(ctx, op, rev); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("removed reviews by author",
			zap.String("author_id", authorID.Hex()),
			zap.Int64("count", removed))
	}
	return removed, nil
}

var _ content.Source = (*Service)(nil)
