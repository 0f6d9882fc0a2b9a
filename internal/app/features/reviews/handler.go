// internal/app/features/reviews/handler.go
package reviews

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reelcircle/reelcircle/internal/app/ratings"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/app/system/authz"
	"github.com/reelcircle/reelcircle/internal/app/system/httpjson"
	"github.com/reelcircle/reelcircle/internal/app/system/inputval"
	"github.com/reelcircle/reelcircle/internal/app/system/timeouts"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service is the review write path. *ratings.Service satisfies it.
type Service interface {
	CreateReview(ctx context.Context, authorID primitive.ObjectID, in ratings.ReviewInput) (models.Review, error)
	EditReview(ctx context.Context, actorID, reviewID primitive.ObjectID, p ratings.ReviewPatch) (models.Review, error)
	DeleteReview(ctx context.Context, actorID, reviewID primitive.ObjectID) (models.Review, error)
	ToggleHelpful(ctx context.Context, actorID, reviewID primitive.ObjectID) (models.Review, error)
}

// Handler serves the review routes.
type Handler struct {
	Reviews Service
	Log     *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{
		Reviews: svc,
		Log:     logger,
	}
}

type createRequest struct {
	MovieID string   `json:"movie_id" validate:"required,objectid" label:"Movie"`
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=10" label:"Rating"`
	Text    string   `json:"text" validate:"max=10000" label:"Review"`
	Spoiler bool     `json:"spoiler"`
}

type editRequest struct {
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=10" label:"Rating"`
	Text    *string  `json:"text" validate:"omitempty,max=10000" label:"Review"`
	Spoiler *bool    `json:"spoiler"`
}

// HandleCreate handles POST /reviews.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.ActorID(r)
	if !ok {
		unauthorized(w)
		return
	}
	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Invalid(w, res)
		return
	}
	movieID, _ := primitive.ObjectIDFromHex(req.MovieID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rev, err := h.Reviews.CreateReview(ctx, actorID, ratings.ReviewInput{
		MovieID: movieID,
		Rating:  req.Rating,
		Text:    req.Text,
		Spoiler: req.Spoiler,
	})
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Created(w, rev)
}

// HandleEdit handles PATCH /reviews/{id}. Omitted fields keep their values.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	actorID, reviewID, ok := h.target(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Invalid(w, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rev, err := h.Reviews.EditReview(ctx, actorID, reviewID, ratings.ReviewPatch{
		Rating:  req.Rating,
		Text:    req.Text,
		Spoiler: req.Spoiler,
	})
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, rev)
}

// HandleDelete handles DELETE /reviews/{id} and returns the removed review.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID, reviewID, ok := h.target(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rev, err := h.Reviews.DeleteReview(ctx, actorID, reviewID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, rev)
}

// HandleHelpful handles POST /reviews/{id}/helpful.
func (h *Handler) HandleHelpful(w http.ResponseWriter, r *http.Request) {
	actorID, reviewID, ok := h.target(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rev, err := h.Reviews.ToggleHelpful(ctx, actorID, reviewID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{
		"id":            rev.ID.Hex(),
		"helpful_count": len(rev.HelpfulVotes),
	})
}

// target returns the actor and the {id} review, writing the error response
// when either is missing.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, primitive.ObjectID, bool) {
	actorID, ok := authz.ActorID(r)
	if !ok {
		unauthorized(w)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, r, h.Log, apperr.InvalidInput("reviews.target", "malformed review id"))
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return actorID, reviewID, true
}

func unauthorized(w http.ResponseWriter) {
	httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{Error: "unauthorized", Kind: "Unauthorized"})
}
