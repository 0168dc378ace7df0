// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/auditlog"
	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"github.com/dalemusser/portfolio/internal/app/system/clientinfo"
	"github.com/dalemusser/portfolio/internal/app/system/metrics"
	"github.com/dalemusser/portfolio/internal/app/system/ratelimit"
	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Auth       *Authenticator
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler constructs the login handler. limiter may be nil, which
// leaves sign-in attempts unthrottled.
func NewHandler(users CredentialStore, sessionMgr *auth.SessionManager, audit *auditlog.Logger, m *metrics.Metrics,
	limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthenticator(users),
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Metrics:    m,
		Limiter:    limiter,
		Log:        logger,
	}
}

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

// safeCallback accepts only same-site absolute paths.
func safeCallback(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return auth.AdminLandingPath
	}
	return raw
}

func (h *Handler) countLogin(outcome string) {
	if h.Metrics != nil {
		h.Metrics.Logins.WithLabelValues(outcome).Inc()
	}
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		apierr.Write(w, r, h.Log, apierr.ErrBadRequest)
		return
	}
	var missing []string
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "Email is required")
	}
	if req.Password == "" {
		missing = append(missing, "Password is required")
	}
	if err := apierr.Validation(missing); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.Limiter != nil && !h.Limiter.Allow(clientinfo.IP(r), email) {
		h.countLogin("rate_limited")
		if h.Metrics != nil {
			h.Metrics.RateLimited.Inc()
		}
		h.AuditLog.LoginFailed(ctx, r, email, "rate_limited")
		w.Header().Set("Retry-After", "60")
		apierr.Write(w, r, h.Log, apierr.ErrRateLimited)
		return
	}

	id, err := h.Auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if apierr.KindOf(err) == apierr.KindInvalidCredentials {
			h.countLogin("rejected")
			h.AuditLog.LoginFailed(ctx, r, email, failureReason(err))
		} else {
			h.countLogin("error")
		}
		apierr.Write(w, r, h.Log, err)
		return
	}

	token, err := h.SessionMgr.Issue(w, r, id)
	if err != nil {
		h.countLogin("error")
		apierr.Write(w, r, h.Log, err)
		return
	}

	h.countLogin("success")
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	if oid, err := primitive.ObjectIDFromHex(id.ID); err == nil {
		h.AuditLog.LoginSuccess(ctx, r, oid, id.Email)
	}
	h.Log.Info("user signed in", zap.String("user_id", id.ID), zap.String("role", id.Role))

	respond.Success(w, map[string]any{
		"user":     id,
		"token":    token,
		"redirect": safeCallback(req.CallbackURL),
	})
}

// HandleLogout handles POST /api/auth/logout. It always succeeds.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var userID string
	if c, ok := h.SessionMgr.Claims(r); ok {
		userID = c.UserID()
	}
	if err := h.SessionMgr.Clear(w, r); err != nil {
		h.Log.Warn("logout: clear session", zap.Error(err))
	}
	h.AuditLog.Logout(r.Context(), r, userID)
	respond.Success(w, map[string]any{"message": "Signed out"})
}

// ServeLoginHint handles GET /login. Page rendering lives in the frontend;
// API clients get the sign-in contract and the sanitized callback.
func (h *Handler) ServeLoginHint(w http.ResponseWriter, r *http.Request) {
	respond.Success(w, map[string]any{
		"login":       "POST /api/auth/login",
		"callbackUrl": safeCallback(r.URL.Query().Get(auth.CallbackParam)),
	})
}
