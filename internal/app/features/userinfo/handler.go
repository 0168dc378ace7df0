// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"github.com/dalemusser/portfolio/internal/app/system/respond"
)

// Handler serves the identity behind the current session.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo reports whether the request carries a valid session and,
// if so, who it belongs to. It never fails; an anonymous caller gets
// isAuthenticated false.
//
//	{ "success": true, "isAuthenticated": bool, "user": {id,name,email,role} | null }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Success(w, map[string]any{
			"isAuthenticated": false,
			"user":            nil,
		})
		return
	}

	respond.Success(w, map[string]any{
		"isAuthenticated": true,
		"user":            user,
	})
}
