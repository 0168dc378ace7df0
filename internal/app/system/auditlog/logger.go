// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	"github.com/dalemusser/portfolio/internal/app/system/clientinfo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether s is a known destination setting.
func ValidMode(s string) bool {
	switch s {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls login, logout, and password events.
	Auth string
	// Admin controls profile and settings changes.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test can omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ModeAll
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	if r != nil {
		e.IP = clientinfo.IP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}

// LoginFailed logs a rejected login. The client always sees the same
// message; reason is recorded here only.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	}))
}

// Logout logs a logout. userIDStr may be empty for anonymous logouts.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	e := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Success:   true,
	}
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		e.UserID = &oid
	}
	l.Log(ctx, fromRequest(r, e))
}

// PasswordChanged logs a successful password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &userID,
		Success:   true,
	}))
}

// PasswordChangeFailed logs a rejected password change.
func (l *Logger) PasswordChangeFailed(ctx context.Context, r *http.Request, userID primitive.ObjectID, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventPasswordChangeFail,
		UserID:        &userID,
		Success:       false,
		FailureReason: reason,
	}))
}

// --- Admin Events ---

// ProfileUpdated logs a profile edit.
func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, userID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProfileUpdated,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	}))
}

// SettingsUpdated logs a change of the site settings.
func (l *Logger) SettingsUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventSettingsUpdated,
		UserID:    &actorID,
		Success:   true,
	}))
}

// AdminBootstrapped logs the creation of the configured admin at startup.
func (l *Logger) AdminBootstrapped(ctx context.Context, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminBootstrap,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}
