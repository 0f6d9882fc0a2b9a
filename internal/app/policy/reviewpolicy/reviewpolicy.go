// Package reviewpolicy decides who may mutate a review. Reviews are owned
// exclusively by their author; moderation removes them through the content
// registry instead.
package reviewpolicy

import (
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanMutate reports whether actorID may edit or delete the review.
func CanMutate(actorID primitive.ObjectID, r *models.Review) bool {
	return r != nil && !actorID.IsZero() && r.AuthorID == actorID
}

// CanVoteHelpful reports whether actorID may mark the review helpful.
// Authors cannot vote on their own review.
func CanVoteHelpful(actorID primitive.ObjectID, r *models.Review) bool {
	return r != nil && !actorID.IsZero() && r.AuthorID != actorID
}
