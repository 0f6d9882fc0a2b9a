package moderation

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/policy/grouppolicy"
	"github.com/reelcircle/reelcircle/internal/app/policy/newsroompolicy"
	"github.com/reelcircle/reelcircle/internal/app/policy/rolepolicy"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Removal bases recorded in the audit trail.
const (
	BasisAuthor          = "author"
	BasisGlobalModerator = "global_moderator"
	BasisGroupStaff      = "group_staff"
	BasisNewsroomEditor  = "newsroom_editor"
)

// RemoveContent deletes a piece of content outside of a report. The author
// may always remove their own content, global moderators may remove
// anything, group staff may remove posts in their group and newsroom editors
// may remove posts in their newsroom. It returns the basis that allowed it.
func (e *Engine) RemoveContent(ctx context.Context, actorID primitive.ObjectID, ref content.Ref) (string, error) {
	const op = "moderation.RemoveContent"

	actor, err := e.loadUser(ctx, op, "actor", actorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.Forbidden(op, "sign in required")
		}
		return "", err
	}

	h, err := e.content.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}

	basis, err := e.removalBasis(ctx, op, actor, h)
	if err != nil {
		return "", err
	}
	if basis == "" {
		return "", apperr.Forbidden(op, "you cannot remove this content")
	}

	if err := e.content.Delete(ctx, ref); err != nil {
		return "", err
	}

	e.audit.ContentRemoved(ctx, actor.ID, h.AuthorID, string(h.Kind), h.ID, basis)
	e.log.Info("content removed",
		zap.String("actor_id", actor.ID.Hex()),
		zap.String("target_type", string(h.Kind)),
		zap.String("target_id", h.ID.Hex()),
		zap.String("basis", basis))
	return basis, nil
}

// removalBasis returns why actor may remove h, or "" if they may not.
func (e *Engine) removalBasis(ctx context.Context, op string, actor *models.User, h content.Handle) (string, error) {
	switch {
	case h.AuthorID == actor.ID:
		return BasisAuthor, nil
	case rolepolicy.IsGlobalModerator(actor):
		return BasisGlobalModerator, nil
	}

	switch h.Kind {
	case content.KindGroupPost:
		g, err := e.groups.GetByID(ctx, h.ScopeID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return "", nil
			}
			return "", apperr.Wrap(apperr.KindUnknown, op, err)
		}
		if grouppolicy.IsGroupStaff(&g, actor.ID) {
			return BasisGroupStaff, nil
		}
	case content.KindNewsPost:
		n, err := e.newsrooms.GetByID(ctx, h.ScopeID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return "", nil
			}
			return "", apperr.Wrap(apperr.KindUnknown, op, err)
		}
		if newsroompolicy.IsNewsroomEditor(&n, actor.ID) {
			return BasisNewsroomEditor, nil
		}
	}
	return "", nil
}
