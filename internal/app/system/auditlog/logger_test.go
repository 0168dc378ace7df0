package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	"github.com/dalemusser/portfolio/internal/app/system/auditlog"
	"github.com/dalemusser/portfolio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if auditlog.ValidMode("both") {
		t.Error(`ValidMode("both") = true`)
	}
}

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "a@example.com")
	logger.LoginFailed(ctx, req, "a@example.com", "wrong_password")
	logger.Logout(ctx, req, "")
}

func TestLogger_LogOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "log", Admin: "off"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "127.0.0.1:41000"
	req.Header.Set("X-Forwarded-For", "203.0.113.4")

	logger.LoginFailed(ctx, req, "a@example.com", "user_not_found")
	logger.ProfileUpdated(ctx, req, primitive.NewObjectID(), "name")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1 (admin events are off)", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Errorf("failed logins log at warn, got %s", e.Level)
	}
	fields := e.ContextMap()
	if fields["event_type"] != audit.EventLoginFailed {
		t.Errorf("event_type = %v", fields["event_type"])
	}
	if fields["ip"] != "203.0.113.4" {
		t.Errorf("ip = %v", fields["ip"])
	}
	if fields["failure_reason"] != "user_not_found" {
		t.Errorf("failure_reason = %v", fields["failure_reason"])
	}
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "off"})
	userID := primitive.NewObjectID()
	logger.LoginSuccess(ctx, nil, userID, "a@example.com")

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"})

	req := httptest.NewRequest("PATCH", "/api/admin/profile/update-password", nil)
	logger.PasswordChanged(ctx, req, userID)
	logger.ProfileUpdated(ctx, req, userID, "name,email")

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.IP == "" {
			t.Errorf("%s: expected IP to be recorded", e.EventType)
		}
	}
}
