// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"strconv"

	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Moderation controls logging for report, ban, warn and removal events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Moderation string
	// Admin controls logging for admin actions such as role changes.
	Admin string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via the Sink) and structured logs (via zap).
type Logger struct {
	sink   Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(sink Sink, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		sink:   sink,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetType != "" {
		fields = append(fields, zap.String("target_type", event.TargetType))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryModeration:
		setting = l.config.Moderation
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.sink != nil {
		if err := l.sink.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Moderation Events ---

// ReportFiled logs a new pending report.
func (l *Logger) ReportFiled(ctx context.Context, reporterID, reportID primitive.ObjectID, targetType string, targetID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryModeration,
		EventType:  audit.EventReportFiled,
		ActorID:    &reporterID,
		TargetType: targetType,
		TargetID:   &targetID,
		Success:    true,
		Details: map[string]string{
			"report_id": reportID.Hex(),
		},
	})
}

// ReportClosed logs a report leaving the pending state. contentDeleted is
// false when the content was already gone.
func (l *Logger) ReportClosed(ctx context.Context, actorID, reportID primitive.ObjectID, status, targetType string, targetID primitive.ObjectID, contentDeleted bool) {
	eventType := audit.EventReportDismissed
	if status == "resolved" {
		eventType = audit.EventReportResolved
	}
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryModeration,
		EventType:  eventType,
		ActorID:    &actorID,
		TargetType: targetType,
		TargetID:   &targetID,
		Success:    true,
		Details: map[string]string{
			"report_id":       reportID.Hex(),
			"content_deleted": strconv.FormatBool(contentDeleted),
		},
	})
}

// UserBanned logs a completed ban cascade with per-step counts.
func (l *Logger) UserBanned(ctx context.Context, actorID, targetUserID primitive.ObjectID, runID string, counts map[string]int64) {
	details := map[string]string{"run_id": runID}
	for step, n := range counts {
		details[step] = strconv.FormatInt(n, 10)
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventUserBanned,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		Success:   true,
		Details:   details,
	})
}

// BanStepFailed logs the step at which a ban cascade stopped. Re-running
// the ban resumes from there.
func (l *Logger) BanStepFailed(ctx context.Context, actorID, targetUserID primitive.ObjectID, runID, step string, err error) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryModeration,
		EventType:     audit.EventBanStepFailed,
		UserID:        &targetUserID,
		ActorID:       &actorID,
		Success:       false,
		FailureReason: err.Error(),
		Details: map[string]string{
			"run_id": runID,
			"step":   step,
		},
	})
}

func (l *Logger) UserWarned(ctx context.Context, actorID, targetUserID, warningID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventUserWarned,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		Success:   true,
		Details: map[string]string{
			"warning_id": warningID.Hex(),
		},
	})
}

// ContentRemoved logs a direct removal outside a report resolution.
func (l *Logger) ContentRemoved(ctx context.Context, actorID, authorID primitive.ObjectID, targetType string, targetID primitive.ObjectID, basis string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryModeration,
		EventType:  audit.EventContentRemoved,
		UserID:     &authorID,
		ActorID:    &actorID,
		TargetType: targetType,
		TargetID:   &targetID,
		Success:    true,
		Details: map[string]string{
			"basis": basis,
		},
	})
}

// --- Admin Events ---

func (l *Logger) RoleChanged(ctx context.Context, actorID, targetUserID primitive.ObjectID, from, to string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventRoleChanged,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		Success:   true,
		Details: map[string]string{
			"from": from,
			"to":   to,
		},
	})
}
