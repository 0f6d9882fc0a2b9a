package moderation

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/policy/rolepolicy"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ChangeRole sets a user's global role. Admin only. Admins cannot change
// their own role.
func (e *Engine) ChangeRole(ctx context.Context, actorID, userID primitive.ObjectID, role string) (*models.User, error) {
	const op = "moderation.ChangeRole"

	actor, err := e.loadUser(ctx, op, "actor", actorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Forbidden(op, "admin role required")
		}
		return nil, err
	}
	if !rolepolicy.CanChangeRoles(actor) {
		return nil, apperr.Forbidden(op, "admin role required")
	}
	if !models.IsValidRole(role) {
		return nil, apperr.InvalidInput(op, "unknown role "+role)
	}
	if actor.ID == userID {
		return nil, apperr.Forbidden(op, "you cannot change your own role")
	}

	target, err := e.loadUser(ctx, op, "user", userID)
	if err != nil {
		return nil, err
	}
	from := target.Role
	if from == role {
		return target, nil
	}

	if err := e.users.SetRole(ctx, target.ID, role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound(op, "user")
		}
		return nil, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	target.Role = role

	e.audit.RoleChanged(ctx, actor.ID, target.ID, from, role)
	e.log.Info("role changed",
		zap.String("actor_id", actor.ID.Hex()),
		zap.String("user_id", target.ID.Hex()),
		zap.String("from", from),
		zap.String("to", role))
	return target, nil
}
