// Package apierr is the error taxonomy of the JSON API and the single place
// where errors are turned into HTTP responses.
//
// Handlers wrap failures with fmt.Errorf("...: %w", err) and hand them to
// Write. Classified errors (*Error, *ValidationError) keep their status and
// user-facing message through any amount of wrapping; everything else is
// logged and answered with a generic 500.
package apierr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/system/respond"
	"go.uber.org/zap"
)

// Error is a classified API failure with a fixed status and message.
type Error struct {
	Kind    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Kinds. Several errors may share a kind (e.g. all not-found variants).
const (
	KindUnauthenticated    = "unauthenticated"
	KindForbidden          = "forbidden"
	KindInvalidCredentials = "invalid_credentials"
	KindInvalidOldPassword = "invalid_old_password"
	KindPasswordUnchanged  = "password_unchanged"
	KindNotFound           = "not_found"
	KindInvalidProjectID   = "invalid_project_id"
	KindBadRequest         = "bad_request"
	KindRateLimited        = "rate_limited"
	KindValidation         = "validation"
	KindInternal           = "internal"
)

var (
	ErrUnauthenticated = &Error{KindUnauthenticated, http.StatusUnauthorized, "Unauthorized"}
	ErrSessionExpired  = &Error{KindUnauthenticated, http.StatusUnauthorized, "Session expired, please sign in again"}
	ErrForbidden       = &Error{KindForbidden, http.StatusForbidden, "Forbidden"}

	// ErrInvalidCredentials is deliberately the same for an unknown email and
	// a wrong password.
	ErrInvalidCredentials = &Error{KindInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"}
	ErrInvalidOldPassword = &Error{KindInvalidOldPassword, http.StatusBadRequest, "Old password is incorrect"}
	ErrPasswordUnchanged  = &Error{KindPasswordUnchanged, http.StatusBadRequest, "New password must be different from the current password"}

	ErrUserNotFound     = &Error{KindNotFound, http.StatusNotFound, "User not found"}
	ErrProjectNotFound  = &Error{KindNotFound, http.StatusNotFound, "Project not found"}
	ErrSettingsNotFound = &Error{KindNotFound, http.StatusNotFound, "Settings not found"}

	ErrInvalidProjectID = &Error{KindInvalidProjectID, http.StatusBadRequest, "Invalid project ID"}
	ErrBadRequest       = &Error{KindBadRequest, http.StatusBadRequest, "Invalid request body"}
	ErrRateLimited      = &Error{KindRateLimited, http.StatusTooManyRequests, "Too many requests, please slow down"}
)

// ValidationError carries every field-level problem found in one request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Validation returns a *ValidationError for msgs, or nil when msgs is empty,
// so callers can collect messages and return the result directly.
func Validation(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

// KindOf classifies err.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// Write answers the request with the JSON failure body for err.
// Unclassified errors are logged; their text never reaches the client.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		respond.Failure(w, http.StatusBadRequest, "Validation failed", ve.Messages)
		return
	}
	var ae *Error
	if errors.As(err, &ae) {
		respond.Failure(w, ae.Status, ae.Message, nil)
		return
	}
	log.Error("request failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	respond.Failure(w, http.StatusInternalServerError, "Internal server error", nil)
}
