package moderation

import (
	"context"
	"net/http"

	"github.com/reelcircle/reelcircle/internal/app/system/httpjson"
	"github.com/reelcircle/reelcircle/internal/app/system/inputval"
)

type warnRequest struct {
	Reason string `json:"reason"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,role" label:"Role"`
}

// HandleBan handles POST /users/{id}/ban.
func (h *Handler) HandleBan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	// Bans carry no deadline and survive client hang-ups; only the
	// storage client's timeouts bound them.
	res, err := h.Engine.BanUser(context.WithoutCancel(r.Context()), actorID, userID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, res)
}

// HandleWarn handles POST /users/{id}/warn.
func (h *Handler) HandleWarn(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	var req warnRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	res, err := h.Engine.WarnUser(ctx, actorID, userID, req.Reason)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.Created(w, res)
}

// ServeWarnings handles GET /users/{id}/warnings.
func (h *Handler) ServeWarnings(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	ws, err := h.Engine.ListWarnings(ctx, actorID, userID)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"warnings": ws})
}

// HandleRole handles POST /users/{id}/role.
func (h *Handler) HandleRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	var req roleRequest
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

	u, err := h.Engine.ChangeRole(ctx, actorID, userID, req.Role)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]string{"id": u.ID.Hex(), "role": u.Role})
}
