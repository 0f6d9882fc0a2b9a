package moderation

import (
	"net/http"

	"github.com/reelcircle/reelcircle/internal/app/system/httpjson"
	"github.com/reelcircle/reelcircle/internal/app/system/inputval"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type flagRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id" validate:"required,objectid" label:"Target"`
	Reason     string `json:"reason"`
}

type resolveRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved dismissed" label:"Status"`
	Note   string `json:"note"`
}

// HandleFlag handles POST /reports.
func (h *Handler) HandleFlag(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req flagRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Invalid(w, res)
		return
	}
	targetID, _ := primitive.ObjectIDFromHex(req.TargetID)

	ctx, cancel := withTimeout(r)
	defer cancel()

	rep, err := h.Engine.FlagContent(ctx, actorID, req.TargetType, targetID, req.Reason)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Created(w, rep)
}

// ServeList handles GET /reports?status=pending|all. The default is pending.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	list := h.Engine.ListPendingReports
	switch r.URL.Query().Get("status") {
	case "", "pending":
	case "all":
		list = h.Engine.ListAllReports
	default:
		httpjson.Write(w, http.StatusBadRequest, httpjson.ErrorBody{
			Error: "status must be pending or all",
			Kind:  "InvalidInput",
		})
		return
	}

	views, err := list(ctx, actorID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"reports": views})
}

// HandleResolve handles POST /reports/{id}/resolve.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	reportID, err := pathID(r, "id")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	var req resolveRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Invalid(w, res)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	rep, err := h.Engine.ResolveReport(ctx, actorID, reportID, req.Status, req.Note)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, rep)
}
