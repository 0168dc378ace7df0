// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit-log listing. Bootstrap mounts it inside the
// admin-only group, so no role check happens here.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
