package auth

import (
	"context"
	"net/http"
)

// SessionUser is the authenticated identity placed in the request context.
type SessionUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *SessionUser) IsAdmin() bool {
	return u.Role == "admin"
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithUser returns a copy of r carrying u. Handlers normally get the user
// from Guard; tests use this to skip token handling.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func userFromClaims(c *Claims) *SessionUser {
	return &SessionUser{
		ID:           c.UserID(),
		Name:         c.Name,
		Email:        c.Email,
		Role:         c.Role,
		TokenVersion: c.TokenVersion,
	}
}
