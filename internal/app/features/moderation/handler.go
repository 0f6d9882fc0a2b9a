// internal/app/features/moderation/handler.go
package moderation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reelcircle/reelcircle/internal/app/content"
	modengine "github.com/reelcircle/reelcircle/internal/app/moderation"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/app/system/authz"
	"github.com/reelcircle/reelcircle/internal/app/system/httpjson"
	"github.com/reelcircle/reelcircle/internal/app/system/timeouts"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Engine is the moderation engine as seen by the HTTP layer.
// *modengine.Engine satisfies it.
type Engine interface {
	FlagContent(ctx context.Context, reporterID primitive.ObjectID, targetType string, targetID primitive.ObjectID, reason string) (models.Report, error)
	ListPendingReports(ctx context.Context, actorID primitive.ObjectID) ([]modengine.ReportView, error)
	ListAllReports(ctx context.Context, actorID primitive.ObjectID) ([]modengine.ReportView, error)
	ResolveReport(ctx context.Context, actorID, reportID primitive.ObjectID, status, note string) (models.Report, error)
	BanUser(ctx context.Context, actorID, targetUserID primitive.ObjectID) (modengine.BanResult, error)
	WarnUser(ctx context.Context, actorID, targetUserID primitive.ObjectID, reason string) (modengine.WarnResult, error)
	ListWarnings(ctx context.Context, actorID, userID primitive.ObjectID) ([]models.Warning, error)
	RemoveContent(ctx context.Context, actorID primitive.ObjectID, ref content.Ref) (string, error)
	ChangeRole(ctx context.Context, actorID, userID primitive.ObjectID, role string) (*models.User, error)
}

// Handler serves the report, user-moderation and content-removal routes.
type Handler struct {
	Engine Engine
	Log    *zap.Logger
}

// NewHandler constructs a moderation Handler.
func NewHandler(engine Engine, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
	}
}

// actor returns the signed-in user's id. RequireSignedIn guarantees one;
// the check covers handlers mounted without it.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := authz.ActorID(r)
	if !ok {
		httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{Error: "unauthorized", Kind: "Unauthorized"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses the {name} URL parameter as an ObjectID.
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.InvalidInput("moderation.pathID", "malformed "+name)
	}
	return id, nil
}

// withTimeout bounds a handler's storage work.
func withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Medium())
}
