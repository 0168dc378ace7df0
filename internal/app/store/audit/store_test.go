package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	"github.com/dalemusser/portfolio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)

	events := []audit.Event{
		{Timestamp: base, Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, IP: "203.0.113.1"},
		{Timestamp: base.Add(time.Minute), Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &userID, Success: true},
		{Timestamp: base.Add(2 * time.Minute), Category: audit.CategoryAdmin, EventType: audit.EventProfileUpdated, UserID: &userID, Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	all, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].EventType != audit.EventProfileUpdated {
		t.Errorf("newest first: got %s", all[0].EventType)
	}

	mine, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("got %d events for user, want 2", len(mine))
	}

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("auth events = %d, want 2", n)
	}

	since := base.Add(90 * time.Second)
	recent, err := store.Query(ctx, audit.QueryFilter{Since: &since})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("events since = %d, want 1", len(recent))
	}
}

func TestStore_Log_FillsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	got, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventLogout})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].ID.IsZero() || got[0].Timestamp.IsZero() {
		t.Errorf("expected ID and timestamp to be filled, got %+v", got)
	}
}
