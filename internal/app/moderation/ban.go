package moderation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Ban step names, used as BanResult.Counts keys and in audit details.
const (
	StepReports   = "reports_resolved"
	StepGroups    = "groups_left"
	StepNewsrooms = "newsrooms_left"
	StepAccount   = "account_deleted"
)

// BanResult confirms a completed ban.
type BanResult struct {
	RunID   string           `json:"run_id"`
	UserID  string           `json:"user_id"`
	Message string           `json:"message"`
	Counts  map[string]int64 `json:"counts"`
}

// banStep is one idempotent step of the ban cascade.
type banStep struct {
	name string
	run  func(ctx context.Context) (int64, error)
}

// BanUser deletes a user together with everything they authored.
//
// Steps run in order: content of each kind, the user's own pending reports
// (resolved with "User banned."), group and newsroom memberships, then the
// account. Nothing is rolled back when a step fails; every step tolerates
// work that is already done, so calling BanUser again finishes the job.
func (e *Engine) BanUser(ctx context.Context, actorID, targetUserID primitive.ObjectID) (BanResult, error) {
	const op = "moderation.BanUser"

	actor, err := e.requireModerator(ctx, op, actorID)
	if err != nil {
		return BanResult{}, err
	}
	target, err := e.loadModeratableTarget(ctx, op, targetUserID)
	if err != nil {
		return BanResult{}, err
	}

	runID := uuid.NewString()
	log := e.log.With(
		zap.String("ban_run_id", runID),
		zap.String("actor_id", actor.ID.Hex()),
		zap.String("user_id", target.ID.Hex()))
	log.Info("ban started")

	counts := make(map[string]int64)
	for _, step := range e.banSteps(actor.ID, target.ID) {
		n, err := step.run(ctx)
		if err != nil {
			BansTotal.WithLabelValues("failed").Inc()
			log.Error("ban step failed", zap.String("step", step.name), zap.Error(err))
			e.audit.BanStepFailed(ctx, actor.ID, target.ID, runID, step.name, err)
			if apperr.KindOf(err) != apperr.KindUnknown {
				return BanResult{}, err
			}
			return BanResult{}, apperr.Wrap(apperr.KindUnknown, op, fmt.Errorf("step %s: %w", step.name, err))
		}
		counts[step.name] = n
	}

	BansTotal.WithLabelValues("completed").Inc()
	e.audit.UserBanned(ctx, actor.ID, target.ID, runID, counts)
	log.Info("ban completed", zap.Any("counts", counts))

	return BanResult{
		RunID:   runID,
		UserID:  target.ID.Hex(),
		Message: fmt.Sprintf("User %s has been banned.", target.DisplayName),
		Counts:  counts,
	}, nil
}

func (e *Engine) banSteps(actorID, userID primitive.ObjectID) []banStep {
	var steps []banStep
	for _, kind := range e.content.Kinds() {
		kind := kind
		steps = append(steps, banStep{
			name: "content_" + string(kind),
			run: func(ctx context.Context) (int64, error) {
				n, err := e.content.DeleteByAuthor(ctx, kind, userID)
				if n > 0 {
					BanContentRemovedTotal.WithLabelValues(string(kind)).Add(float64(n))
				}
				return n, err
			},
		})
	}
	return append(steps,
		banStep{StepReports, func(ctx context.Context) (int64, error) {
			return e.reports.ResolvePendingByReporter(ctx, userID, actorID, models.BannedReportNote)
		}},
		banStep{StepGroups, func(ctx context.Context) (int64, error) {
			return e.groups.RemoveMember(ctx, userID)
		}},
		banStep{StepNewsrooms, func(ctx context.Context) (int64, error) {
			return e.newsrooms.RemoveUser(ctx, userID)
		}},
		// Last: once the account is gone the ban cannot be re-issued.
		banStep{StepAccount, func(ctx context.Context) (int64, error) {
			return e.users.Delete(ctx, userID)
		}},
	)
}
