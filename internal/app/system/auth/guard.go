package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Paths the guard knows about.
const (
	LoginPath        = "/login"
	AdminPrefix      = "/admin"
	AdminLandingPath = "/admin/dashboard"
	CallbackParam    = "callbackUrl"
)

// Guard is the global route guard. It decodes the session token (a missing
// or invalid token just means "signed out"), places the user in the request
// context, and applies, in order:
//
//  1. signed in + /login          -> redirect to the admin landing page
//  2. signed out + /admin/*       -> redirect to /login?callbackUrl=<path>
//  3. signed in, not admin + /admin/* -> 403
//  4. anything else passes through unmodified
//
// It never touches the database; token claims are trusted as issued.
func (m *SessionManager) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, signedIn := m.Claims(r)
		if signedIn {
			r = WithUser(r, userFromClaims(claims))
		}

		switch {
		case signedIn && isLoginPath(r.URL.Path):
			http.Redirect(w, r, AdminLandingPath, http.StatusSeeOther)
			return
		case !signedIn && isAdminPath(r.URL.Path):
			http.Redirect(w, r, LoginPath+"?"+CallbackParam+"="+callbackValue(r), http.StatusSeeOther)
			return
		case signedIn && isAdminPath(r.URL.Path) && claims.Role != "admin":
			apierr.Write(w, r, m.log, apierr.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn protects API routes: it answers 401 JSON when no valid
// session exists. With a VersionChecker configured, tokens whose version
// no longer matches the stored user (password changed, user gone) are
// rejected too.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			claims, signedIn := m.Claims(r)
			if !signedIn {
				apierr.Write(w, r, m.log, apierr.ErrUnauthenticated)
				return
			}
			u = userFromClaims(claims)
			r = WithUser(r, u)
		}

		if m.versions != nil {
			if err := m.checkVersion(r.Context(), u); err != nil {
				apierr.Write(w, r, m.log, err)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole must run after RequireSignedIn; it answers 403 when the
// user's role is not in allowed.
func (m *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				apierr.Write(w, r, m.log, apierr.ErrUnauthenticated)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				apierr.Write(w, r, m.log, apierr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *SessionManager) checkVersion(ctx context.Context, u *SessionUser) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	current, err := m.versions.CurrentTokenVersion(ctx, u.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return apierr.ErrSessionExpired
		}
		return fmt.Errorf("check token version: %w", err)
	}
	if current != u.TokenVersion {
		m.log.Info("rejected stale session token",
			zap.String("user_id", u.ID),
			zap.Int("token_version", u.TokenVersion),
			zap.Int("current_version", current))
		return apierr.ErrSessionExpired
	}
	return nil
}

func isLoginPath(p string) bool {
	return p == LoginPath || p == LoginPath+"/"
}

func isAdminPath(p string) bool {
	return p == AdminPrefix || strings.HasPrefix(p, AdminPrefix+"/")
}

// callbackValue preserves the requested path (and query) for the login
// page. Plain paths are kept readable: /login?callbackUrl=/admin/dashboard.
func callbackValue(r *http.Request) string {
	if r.URL.RawQuery != "" {
		return url.QueryEscape(r.URL.RequestURI())
	}
	return strings.ReplaceAll(r.URL.EscapedPath(), "&", "%26")
}
