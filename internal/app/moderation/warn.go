package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/reelcircle/reelcircle/internal/app/policy/reportpolicy"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// WarnResult confirms an issued warning.
type WarnResult struct {
	Warning models.Warning `json:"warning"`
	Message string         `json:"message"`
}

// WarnUser records a warning against a user who is not a moderator or admin.
func (e *Engine) WarnUser(ctx context.Context, actorID, targetUserID primitive.ObjectID, reason string) (WarnResult, error) {
	const op = "moderation.WarnUser"

	actor, err := e.requireModerator(ctx, op, actorID)
	if err != nil {
		return WarnResult{}, err
	}
	target, err := e.loadModeratableTarget(ctx, op, targetUserID)
	if err != nil {
		return WarnResult{}, err
	}
	reason, err = cleanText(op, "reason", reason, true)
	if err != nil {
		return WarnResult{}, err
	}

	w, err := e.warnings.Create(ctx, models.Warning{
		UserID:   target.ID,
		IssuedBy: actor.ID,
		Reason:   reason,
	})
	if err != nil {
		return WarnResult{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	WarningsTotal.Inc()
	e.audit.UserWarned(ctx, actor.ID, target.ID, w.ID)
	e.log.Info("user warned",
		zap.String("actor_id", actor.ID.Hex()),
		zap.String("user_id", target.ID.Hex()),
		zap.String("warning_id", w.ID.Hex()))

	return WarnResult{
		Warning: w,
		Message: fmt.Sprintf("User %s has been warned.", target.DisplayName),
	}, nil
}

// ListWarnings returns userID's warnings, newest first. Users may read
// their own; moderators may read anyone's.
func (e *Engine) ListWarnings(ctx context.Context, actorID, userID primitive.ObjectID) ([]models.Warning, error) {
	const op = "moderation.ListWarnings"

	actor, err := e.loadUser(ctx, op, "actor", actorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Forbidden(op, "sign in required")
		}
		return nil, err
	}
	if !reportpolicy.CanViewWarnings(actor, userID) {
		return nil, apperr.Forbidden(op, "you cannot view this user's warnings")
	}

	ws, err := e.warnings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	return ws, nil
}
