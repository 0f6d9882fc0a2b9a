// Package content locates, reads and deletes the kinds of user content that
// can be reported: reviews, comments, group posts and newsroom posts.
//
// A reference to content is a Ref, a closed set of variants each carrying
// the typed id for its own collection. The set is sealed: only this package
// can add a variant, and the Registry dispatches on it exhaustively.
package content

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the content-type tag stored on reports.
type Kind string

const (
	KindReview    Kind = "Review"
	KindComment   Kind = "Comment"
	KindGroupPost Kind = "GroupPost"
	KindNewsPost  Kind = "NewsPost"
)

// Kinds lists every supported kind in cascade order.
var Kinds = []Kind{KindReview, KindComment, KindGroupPost, KindNewsPost}

// ParseKind maps a tag to a Kind, ignoring case. Unknown tags fail with
// UnsupportedContentType.
func ParseKind(tag string) (Kind, error) {
	tag = strings.TrimSpace(tag)
	for _, k := range Kinds {
		if strings.EqualFold(tag, string(k)) {
			return k, nil
		}
	}
	return "", apperr.E(apperr.KindUnsupportedContentType, "content.ParseKind", "unsupported content type "+strconv.Quote(tag))
}

// Typed ids, one per collection.
type (
	ReviewID    primitive.ObjectID
	CommentID   primitive.ObjectID
	GroupPostID primitive.ObjectID
	NewsPostID  primitive.ObjectID
)

// Ref identifies one piece of content.
type Ref interface {
	Kind() Kind
	ObjectID() primitive.ObjectID
	sealed()
}

type ReviewRef struct{ ID ReviewID }
type CommentRef struct{ ID CommentID }
type GroupPostRef struct{ ID GroupPostID }
type NewsPostRef struct{ ID NewsPostID }

func (ReviewRef) Kind() Kind    { return KindReview }
func (CommentRef) Kind() Kind   { return KindComment }
func (GroupPostRef) Kind() Kind { return KindGroupPost }
func (NewsPostRef) Kind() Kind  { return KindNewsPost }

func (r ReviewRef) ObjectID() primitive.ObjectID    { return primitive.ObjectID(r.ID) }
func (r CommentRef) ObjectID() primitive.ObjectID   { return primitive.ObjectID(r.ID) }
func (r GroupPostRef) ObjectID() primitive.ObjectID { return primitive.ObjectID(r.ID) }
func (r NewsPostRef) ObjectID() primitive.ObjectID  { return primitive.ObjectID(r.ID) }

func (ReviewRef) sealed()    {}
func (CommentRef) sealed()   {}
func (GroupPostRef) sealed() {}
func (NewsPostRef) sealed()  {}

// NewRef builds the Ref variant for kind.
func NewRef(kind Kind, id primitive.ObjectID) (Ref, error) {
	switch kind {
	case KindReview:
		return ReviewRef{ID: ReviewID(id)}, nil
	case KindComment:
		return CommentRef{ID: CommentID(id)}, nil
	case KindGroupPost:
		return GroupPostRef{ID: GroupPostID(id)}, nil
	case KindNewsPost:
		return NewsPostRef{ID: NewsPostID(id)}, nil
	}
	return nil, apperr.E(apperr.KindUnsupportedContentType, "content.NewRef", "unsupported content type "+strconv.Quote(string(kind)))
}

// ParseRef builds a Ref from a tag and a hex ObjectID.
func ParseRef(tag, idHex string) (Ref, error) {
	kind, err := ParseKind(tag)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(idHex))
	if err != nil {
		return nil, apperr.InvalidInput("content.ParseRef", "malformed content id")
	}
	return NewRef(kind, id)
}

// Handle is the summary projection of a located piece of content.
type Handle struct {
	Kind     Kind               `json:"type"`
	ID       primitive.ObjectID `json:"id"`
	AuthorID primitive.ObjectID `json:"author_id"`
	// ScopeID is the movie, group or newsroom the content lives in
	// (the review for comments).
	ScopeID   primitive.ObjectID `json:"scope_id"`
	Summary   string             `json:"summary"`
	CreatedAt time.Time          `json:"created_at"`
}

// SummaryLen is the maximum rune length of Handle.Summary.
const SummaryLen = 140

// Excerpt trims s to at most n runes, marking truncation with an ellipsis.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
