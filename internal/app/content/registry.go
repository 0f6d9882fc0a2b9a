package content

import (
	"context"

	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source is the per-collection backend behind one Kind.
//
// Lookup and Remove fail with apperr NotFound when the id is absent. Remove
// is not idempotent: removing an already removed id reports NotFound so the
// caller decides whether that is benign. RemoveByAuthor tolerates an empty
// match and returns the number of records removed.
type Source interface {
	Lookup(ctx context.Context, id primitive.ObjectID) (Handle, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	RemoveByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error)
}

// Registry dispatches content operations to the Source for each Kind.
type Registry struct {
	reviews    Source
	comments   Source
	groupPosts Source
	newsPosts  Source
}

// New builds a Registry. Every source is required.
func New(reviews, comments, groupPosts, newsPosts Source) *Registry {
	return &Registry{
		reviews:    reviews,
		comments:   comments,
		groupPosts: groupPosts,
		newsPosts:  newsPosts,
	}
}

func (r *Registry) sourceFor(op string, ref Ref) (Source, error) {
	var src Source
	switch ref.(type) {
	case ReviewRef:
		src = r.reviews
	case CommentRef:
		src = r.comments
	case GroupPostRef:
		src = r.groupPosts
	case NewsPostRef:
		src = r.newsPosts
	default:
		return nil, apperr.E(apperr.KindUnsupportedContentType, op, "unsupported content reference")
	}
	if src == nil {
		return nil, apperr.E(apperr.KindUnsupportedContentType, op, "no source registered for "+string(ref.Kind()))
	}
	return src, nil
}

func (r *Registry) sourceForKind(op string, kind Kind) (Source, error) {
	ref, err := NewRef(kind, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	return r.sourceFor(op, ref)
}

// Resolve fetches the content behind ref.
func (r *Registry) Resolve(ctx context.Context, ref Ref) (Handle, error) {
	const op = "content.Resolve"
	src, err := r.sourceFor(op, ref)
	if err != nil {
		return Handle{}, err
	}
	h, err := src.Lookup(ctx, ref.ObjectID())
	if err != nil {
		return Handle{}, err
	}
	h.Kind = ref.Kind()
	return h, nil
}

// Delete removes the content behind ref. An absent target is NotFound.
func (r *Registry) Delete(ctx context.Context, ref Ref) error {
	src, err := r.sourceFor("content.Delete", ref)
	if err != nil {
		return err
	}
	return src.Remove(ctx, ref.ObjectID())
}

// DeleteByAuthor removes every record of kind authored by authorID.
func (r *Registry) DeleteByAuthor(ctx context.Context, kind Kind, authorID primitive.ObjectID) (int64, error) {
	src, err := r.sourceForKind("content.DeleteByAuthor", kind)
	if err != nil {
		return 0, err
	}
	return src.RemoveByAuthor(ctx, authorID)
}

// Kinds returns the supported kinds in the order cascades visit them.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(Kinds))
	copy(out, Kinds)
	return out
}
