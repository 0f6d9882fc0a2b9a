// Package moderation implements the report state machine and the actions
// moderators take against users and content.
//
// A report moves Pending -> Resolved or Pending -> Dismissed exactly once.
// Resolving a report deletes its target; dismissing leaves it in place.
// Bans fan out across every content collection with no rollback: steps run
// in a fixed order, each tolerating "already absent", and the user record is
// deleted last so a failed ban can be completed by issuing it again.
package moderation

import (
	"context"
	"errors"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/policy/rolepolicy"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/app/system/auditlog"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Users is the user persistence the engine needs.
type Users interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Reports is the report persistence the engine needs.
type Reports interface {
	Create(ctx context.Context, r models.Report) (models.Report, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Report, error)
	HasPending(ctx context.Context, reporterID primitive.ObjectID, targetType string, targetID primitive.ObjectID) (bool, error)
	List(ctx context.Context, status string) ([]models.Report, error)
	Transition(ctx context.Context, id primitive.ObjectID, status, note string, moderatorID primitive.ObjectID) (models.Report, error)
	ResolvePendingByReporter(ctx context.Context, reporterID, moderatorID primitive.ObjectID, note string) (int64, error)
}

// Warnings is the warning persistence the engine needs.
type Warnings interface {
	Create(ctx context.Context, w models.Warning) (models.Warning, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Warning, error)
}

// Groups is the group persistence the engine needs.
type Groups interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
	RemoveMember(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// Newsrooms is the newsroom persistence the engine needs.
type Newsrooms interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Newsroom, error)
	RemoveUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// Content locates and deletes reportable content. *content.Registry
// satisfies it.
type Content interface {
	Resolve(ctx context.Context, ref content.Ref) (content.Handle, error)
	Delete(ctx context.Context, ref content.Ref) error
	DeleteByAuthor(ctx context.Context, kind content.Kind, authorID primitive.ObjectID) (int64, error)
	Kinds() []content.Kind
}

// Deps bundles the engine's collaborators.
type Deps struct {
	Users     Users
	Reports   Reports
	Warnings  Warnings
	Groups    Groups
	Newsrooms Newsrooms
	Content   Content
}

// Engine is the moderation engine.
type Engine struct {
	users     Users
	reports   Reports
	warnings  Warnings
	groups    Groups
	newsrooms Newsrooms
	content   Content

	audit *auditlog.Logger
	log   *zap.Logger
}

// New builds an Engine. audit may be nil.
func New(deps Deps, audit *auditlog.Logger, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		users:     deps.Users,
		reports:   deps.Reports,
		warnings:  deps.Warnings,
		groups:    deps.Groups,
		newsrooms: deps.Newsrooms,
		content:   deps.Content,
		audit:     audit,
		log:       logger,
	}
}

// loadUser fetches a user, mapping a missing record to NotFound.
func (e *Engine) loadUser(ctx context.Context, op, what string, id primitive.ObjectID) (*models.User, error) {
	if id.IsZero() {
		return nil, apperr.NotFound(op, what)
	}
	u, err := e.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound(op, what)
		}
		return nil, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	if u == nil {
		return nil, apperr.NotFound(op, what)
	}
	return u, nil
}

// requireModerator loads the actor and checks the global moderator role.
// An actor id with no user record is Forbidden, not NotFound.
func (e *Engine) requireModerator(ctx context.Context, op string, actorID primitive.ObjectID) (*models.User, error) {
	return e.requireActor(ctx, op, actorID, rolepolicy.IsGlobalModerator)
}

// requireActor loads the actor and checks allowed against it.
func (e *Engine) requireActor(ctx context.Context, op string, actorID primitive.ObjectID, allowed func(*models.User) bool) (*models.User, error) {
	actor, err := e.loadUser(ctx, op, "actor", actorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Forbidden(op, "moderator role required")
		}
		return nil, err
	}
	if !allowed(actor) {
		return nil, apperr.Forbidden(op, "moderator role required")
	}
	return actor, nil
}

// loadModeratableTarget loads the target user and refuses moderators and
// admins before any mutation happens.
func (e *Engine) loadModeratableTarget(ctx context.Context, op string, targetID primitive.ObjectID) (*models.User, error) {
	target, err := e.loadUser(ctx, op, "user", targetID)
	if err != nil {
		return nil, err
	}
	if err := rolepolicy.RequireModeratable(op, target); err != nil {
		return nil, err
	}
	return target, nil
}
