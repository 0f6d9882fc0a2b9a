package newspoststore

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Source adapts the store to content.Source. ScopeID is the newsroom and
// the summary is the headline.
func (s *Store) Source() content.Source { return source{s} }

type source struct{ s *Store }

func (src source) Lookup(ctx context.Context, id primitive.ObjectID) (content.Handle, error) {
	p, err := src.s.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return content.Handle{}, apperr.NotFound("newsposts.Lookup", "news post")
	}
	if err != nil {
		return content.Handle{}, err
	}
	summary := p.Title
	if summary == "" {
		summary = p.Body
	}
	return content.Handle{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		ScopeID:   p.NewsroomID,
		Summary:   content.Excerpt(summary, content.SummaryLen),
		CreatedAt: p.CreatedAt,
	}, nil
}

func (src source) Remove(ctx context.Context, id primitive.ObjectID) error {
	n, err := src.s.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("newsposts.Remove", "news post")
	}
	return nil
}

func (src source) RemoveByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return src.s.DeleteByAuthor(ctx, authorID)
}
