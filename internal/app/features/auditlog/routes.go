// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelcircle/reelcircle/internal/app/system/auth"
)

// Routes mounts the audit log under the path where this router is mounted
// (typically "/audit" from bootstrap). Access is limited to moderators and
// admins.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
	})

	return r
}
