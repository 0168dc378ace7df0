// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes wires the dashboard under /admin/dashboard. Access control comes
// from the global route guard.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	return r
}
