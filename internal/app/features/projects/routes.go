// internal/app/features/projects/routes.go
package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes is mounted at /api/public/projects. limit guards the click
// write and may be nil.
func PublicRoutes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/track-click", h.ServeClickStats)
	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/track-click", h.HandleTrackClick)
	})
	return r
}

// AdminRoutes is mounted at /api/admin/projects.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.ServeSummary)
	return r
}
