// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes serves the auth API, mounted under /api/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	return r
}

// PageRoutes serves GET /login.
func PageRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLoginHint)
	return r
}
