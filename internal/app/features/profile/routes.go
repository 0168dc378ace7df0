// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// Routes is mounted under /api/admin/profile behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeProfile)
	r.Patch("/", h.HandleUpdateProfile)
	r.Patch("/update-password", h.HandleUpdatePassword)
	return r
}
