package moderation

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/policy/reportpolicy"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reporter is the public identity of a report's author.
type Reporter struct {
	ID          primitive.ObjectID `json:"id"`
	DisplayName string             `json:"display_name"`
	Role        string             `json:"role"`
}

// ReportView is a report joined with its reporter and a live summary of its
// target. Reporter and Target are nil when the record no longer exists.
type ReportView struct {
	models.Report
	Reporter *Reporter      `json:"reporter"`
	Target   *content.Handle `json:"target"`
}

// ListPendingReports returns pending reports, newest first.
func (e *Engine) ListPendingReports(ctx context.Context, actorID primitive.ObjectID) ([]ReportView, error) {
	return e.listReports(ctx, "moderation.ListPendingReports", actorID, models.ReportPending)
}

// ListAllReports returns reports in every state, newest first.
func (e *Engine) ListAllReports(ctx context.Context, actorID primitive.ObjectID) ([]ReportView, error) {
	return e.listReports(ctx, "moderation.ListAllReports", actorID, "")
}

func (e *Engine) listReports(ctx context.Context, op string, actorID primitive.ObjectID, status string) ([]ReportView, error) {
	if _, err := e.requireActor(ctx, op, actorID, reportpolicy.CanViewReports); err != nil {
		return nil, err
	}

	reports, err := e.reports.List(ctx, status)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	reporters := make(map[primitive.ObjectID]*Reporter)
	out := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		v := ReportView{Report: r}

		rep, seen := reporters[r.ReporterID]
		if !seen {
			rep, err = e.reporter(ctx, op, r.ReporterID)
			if err != nil {
				return nil, err
			}
			reporters[r.ReporterID] = rep
		}
		v.Reporter = rep

		v.Target, err = e.target(ctx, r)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUnknown, op, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Engine) reporter(ctx context.Context, op string, id primitive.ObjectID) (*Reporter, error) {
	u, err := e.loadUser(ctx, op, "reporter", id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Reporter{ID: u.ID, DisplayName: u.DisplayName, Role: u.Role}, nil
}

// target resolves a report's content. Content deleted by other means, or a
// tag no longer supported, yields a nil handle.
func (e *Engine) target(ctx context.Context, r models.Report) (*content.Handle, error) {
	kind, err := content.ParseKind(r.TargetType)
	if err != nil {
		e.log.Warn("report with unsupported target type",
			zap.String("report_id", r.ID.Hex()),
			zap.String("target_type", r.TargetType))
		return nil, nil
	}
	ref, err := content.NewRef(kind, r.TargetID)
	if err != nil {
		return nil, nil
	}
	h, err := e.content.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}
