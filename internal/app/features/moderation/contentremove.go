package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/system/httpjson"
)

// HandleRemoveContent handles DELETE /content/{type}/{id}.
func (h *Handler) HandleRemoveContent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	ref, err := content.ParseRef(chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	basis, err := h.Engine.RemoveContent(ctx, actorID, ref)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]string{
		"type":  string(ref.Kind()),
		"id":    ref.ObjectID().Hex(),
		"basis": basis,
	})
}
