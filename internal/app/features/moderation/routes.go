// internal/app/features/moderation/routes.go
package moderation

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelcircle/reelcircle/internal/app/system/auth"
	"github.com/reelcircle/reelcircle/internal/app/system/ratelimit"
)

// ReportRoutes is mounted under /reports. A non-nil limiter throttles
// report filing per actor.
func ReportRoutes(h *Handler, sm *auth.SessionManager, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	if limiter != nil {
		r.With(limiter.Middleware("flag", h.Log)).Post("/", h.HandleFlag)
	} else {
		r.Post("/", h.HandleFlag)
	}
	r.Get("/", h.ServeList)
	r.Post("/{id}/resolve", h.HandleResolve)
	return r
}

// UserRoutes is mounted under /users.
func UserRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/{id}/ban", h.HandleBan)
	r.Post("/{id}/warn", h.HandleWarn)
	r.Get("/{id}/warnings", h.ServeWarnings)
	r.Post("/{id}/role", h.HandleRole)
	return r
}

// ContentRoutes is mounted under /content.
func ContentRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Delete("/{type}/{id}", h.HandleRemoveContent)
	return r
}
