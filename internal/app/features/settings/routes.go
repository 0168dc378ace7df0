// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

// PublicRoutes is mounted at /api/public/settings.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServePublic)
	return r
}

// AdminRoutes is mounted at /api/admin/settings behind RequireSignedIn.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAdmin)
	r.Patch("/", h.HandleUpdate)
	return r
}
