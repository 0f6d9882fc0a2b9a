package moderation

import (
	"context"
	"unicode/utf8"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/app/system/htmlsanitize"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxReasonLen bounds report reasons, warning reasons and moderator notes.
const MaxReasonLen = 1000

// FlagContent files a pending report against the content identified by
// targetType and targetID. Any signed-in user may flag.
//
// The duplicate check and the insert are separate round trips; two
// concurrent flags by the same reporter can both succeed.
func (e *Engine) FlagContent(ctx context.Context, reporterID primitive.ObjectID, targetType string, targetID primitive.ObjectID, reason string) (models.Report, error) {
	const op = "moderation.FlagContent"

	if reporterID.IsZero() {
		return models.Report{}, apperr.InvalidInput(op, "reporter is required")
	}
	kind, err := content.ParseKind(targetType)
	if err != nil {
		return models.Report{}, err
	}
	ref, err := content.NewRef(kind, targetID)
	if err != nil {
		return models.Report{}, err
	}
	if _, err := e.content.Resolve(ctx, ref); err != nil {
		return models.Report{}, err
	}

	reason, err = cleanText(op, "reason", reason, true)
	if err != nil {
		return models.Report{}, err
	}

	dup, err := e.reports.HasPending(ctx, reporterID, string(kind), targetID)
	if err != nil {
		return models.Report{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	if dup {
		return models.Report{}, apperr.E(apperr.KindDuplicateReport, op, "you already have a pending report on this content")
	}

	rep, err := e.reports.Create(ctx, models.Report{
		ReporterID: reporterID,
		TargetType: string(kind),
		TargetID:   targetID,
		Reason:     reason,
	})
	if err != nil {
		return models.Report{}, apperr.Wrap(apperr.KindUnknown, op, err)
	}

	ReportsFiledTotal.WithLabelValues(string(kind)).Inc()
	e.audit.ReportFiled(ctx, reporterID, rep.ID, rep.TargetType, rep.TargetID)
	e.log.Info("report filed",
		zap.String("report_id", rep.ID.Hex()),
		zap.String("target_type", rep.TargetType),
		zap.String("target_id", rep.TargetID.Hex()))
	return rep, nil
}

// cleanText sanitizes free text and enforces MaxReasonLen. When required,
// text that is blank after sanitizing is InvalidInput.
func cleanText(op, field, s string, required bool) (string, error) {
	s = htmlsanitize.PlainText(s)
	if required && s == "" {
		return "", apperr.InvalidInput(op, field+" is required")
	}
	if utf8.RuneCountInString(s) > MaxReasonLen {
		return "", apperr.InvalidInput(op, field+" is too long")
	}
	return s, nil
}
