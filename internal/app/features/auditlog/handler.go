// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"go.uber.org/zap"
)

// Events is the audit query surface. *audit.Store satisfies it.
type Events interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Events Events
	Log    *zap.Logger
}

// NewHandler constructs an audit log feature handler.
func NewHandler(events Events, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Log:    logger,
	}
}
