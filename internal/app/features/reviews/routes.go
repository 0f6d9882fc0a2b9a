// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelcircle/reelcircle/internal/app/system/auth"
)

// Routes is mounted under /reviews.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Patch("/{id}", h.HandleEdit)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/helpful", h.HandleHelpful)
	return r
}
