package moderation

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/policy/reportpolicy"
	reportstore "github.com/reelcircle/reelcircle/internal/app/store/reports"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ResolveReport moves a pending report to resolved or dismissed. Resolving
// deletes the reported content first; content that is already gone does not
// fail the resolution, but any other delete failure leaves the report
// pending so the resolution can be issued again.
func (e *Engine) ResolveReport(ctx context.Context, actorID, reportID primitive.ObjectID, status, note string) (models.Report, error) {
	const op = "moderation.ResolveReport"

	actor, err := e.requireActor(ctx, op, actorID, reportpolicy.CanResolve)
	if err != nil {
		return models.Report{}, err
	}
	if status != models.ReportResolved && status != models.ReportDismissed {
		return models.Report{}, apperr.InvalidInput(op, "status must be resolved or dismissed")
	}
	note, err = cleanText(op, "note", note, false)
	if err != nil {
		return models.Report{}, err
	}

	cur, err := e.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Report{}, apperr.NotFound(op, "report")
		}
		return models.Report{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	if cur.Status != models.ReportPending {
		return models.Report{}, apperr.E(apperr.KindInvalidState, op, "report is already "+cur.Status)
	}

	deleted := false
	if status == models.ReportResolved {
		deleted, err = e.deleteTarget(ctx, cur)
		if err != nil {
			e.log.Error("content delete failed, report left pending",
				zap.String("report_id", cur.ID.Hex()),
				zap.String("target_type", cur.TargetType),
				zap.String("target_id", cur.TargetID.Hex()),
				zap.Error(err))
			if apperr.KindOf(err) != apperr.KindUnknown {
				return models.Report{}, err
			}
			return models.Report{}, apperr.Wrap(apperr.KindUnknown, op, err)
		}
	}

	// The store only transitions a report that is still pending, so a
	// concurrent resolution loses here rather than overwriting.
	rep, err := e.reports.Transition(ctx, reportID, status, note, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, reportstore.ErrNotPending):
			return models.Report{}, apperr.E(apperr.KindInvalidState, op, "report is no longer pending")
		case errors.Is(err, mongo.ErrNoDocuments):
			return models.Report{}, apperr.NotFound(op, "report")
		}
		return models.Report{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	ReportsClosedTotal.WithLabelValues(status).Inc()
	e.audit.ReportClosed(ctx, actor.ID, rep.ID, status, rep.TargetType, rep.TargetID, deleted)
	e.log.Info("report closed",
		zap.String("report_id", rep.ID.Hex()),
		zap.String("status", status),
		zap.Bool("content_deleted", deleted))
	return rep, nil
}

// deleteTarget removes a resolved report's content. It reports false with
// no error when the content was already absent.
func (e *Engine) deleteTarget(ctx context.Context, r models.Report) (bool, error) {
	ref, err := content.ParseRef(r.TargetType, r.TargetID.Hex())
	if err != nil {
		return false, err
	}
	if err := e.content.Delete(ctx, ref); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
