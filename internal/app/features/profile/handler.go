// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/auditlog"
	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"github.com/dalemusser/portfolio/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the self-service profile endpoints.
type Handler struct {
	Manager  *Manager
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Handler over the given user store.
func NewHandler(users Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Manager:  NewManager(users),
		AuditLog: audit,
		Log:      logger,
	}
}

// currentUserID resolves the signed-in user. A token whose subject is not
// an ObjectID is treated as no session.
func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeProfile handles GET /api/admin/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUserID(r)
	if !ok {
		apierr.Write(w, r, h.Log, apierr.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Manager.Get(ctx, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Success(w, map[string]any{"user": user})
}

// HandleUpdateProfile handles PATCH /api/admin/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUserID(r)
	if !ok {
		apierr.Write(w, r, h.Log, apierr.ErrUnauthenticated)
		return
	}

	var in ProfileInput
	if err := respond.Decode(w, r, &in); err != nil {
		apierr.Write(w, r, h.Log, apierr.ErrBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Manager.UpdateProfile(ctx, uid, in)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	fields := []string{"name", "email"}
	if strings.TrimSpace(in.Phone) != "" {
		fields = append(fields, "phone")
	}
	h.AuditLog.ProfileUpdated(ctx, r, uid, strings.Join(fields, ","))

	respond.Success(w, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// HandleUpdatePassword handles PATCH /api/admin/profile/update-password.
// Existing sessions stop working for the API once it succeeds.
func (h *Handler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUserID(r)
	if !ok {
		apierr.Write(w, r, h.Log, apierr.ErrUnauthenticated)
		return
	}

	var in PasswordInput
	if err := respond.Decode(w, r, &in); err != nil {
		apierr.Write(w, r, h.Log, apierr.ErrBadRequest)
		return
	}

	// bcrypt runs twice or three times here; Medium leaves room for it.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Manager.UpdatePassword(ctx, uid, in); err != nil {
		if kind := apierr.KindOf(err); kind == apierr.KindInvalidOldPassword || kind == apierr.KindPasswordUnchanged {
			h.AuditLog.PasswordChangeFailed(ctx, r, uid, kind)
		}
		apierr.Write(w, r, h.Log, err)
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, uid)
	respond.Success(w, map[string]any{
		"message": "Password updated successfully. Please sign in again.",
	})
}
