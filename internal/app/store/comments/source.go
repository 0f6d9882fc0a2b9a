package commentstore

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Source adapts the store to content.Source.
func (s *Store) Source() content.Source { return source{s} }

type source struct{ s *Store }

func (src source) Lookup(ctx context.Context, id primitive.ObjectID) (content.Handle, error) {
	c, err := src.s.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return content.Handle{}, apperr.NotFound("comments.Lookup", "comment")
	}
	if err != nil {
		return content.Handle{}, err
	}
	return content.Handle{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		ScopeID:   c.ReviewID,
		Summary:   content.Excerpt(c.Body, content.SummaryLen),
		CreatedAt: c.CreatedAt,
	}, nil
}

func (src source) Remove(ctx context.Context, id primitive.ObjectID) error {
	n, err := src.s.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("comments.Remove", "comment")
	}
	return nil
}

func (src source) RemoveByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return src.s.DeleteByAuthor(ctx, authorID)
}
