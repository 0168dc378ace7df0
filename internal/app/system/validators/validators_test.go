package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/portfolio/internal/app/system/validators"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"github.com/dalemusser/portfolio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func ensure(t *testing.T) *testutil.Fixtures {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return testutil.NewFixtures(t, db)
}

func TestEnsureAll_IdempotentAndCreatesCollections(t *testing.T) {
	fx := ensure(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, fx.DB(), zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names, err := fx.DB().ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "projects", "site_settings", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	fx := ensure(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	users := fx.DB().Collection("users")

	// The store's own writes pass.
	fx.CreateAdmin(ctx, "Ada", "ada@example.com", "secret1")

	bad := []bson.M{
		{"email": "x@example.com", "role": "admin"},
		{"name": "X", "email": "x@example.com", "role": "owner"},
		{"name": "X", "email": "not-an-email", "role": "admin"},
		{"name": "   ", "email": "x@example.com", "role": "admin"},
		{"name": "X", "email": "x@example.com", "role": "admin", "token_version": -1},
	}
	for _, doc := range bad {
		if _, err := users.InsertOne(ctx, doc); err == nil {
			t.Errorf("expected validation error for %v", doc)
		}
	}
}

func TestProjectsValidator(t *testing.T) {
	fx := ensure(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	projects := fx.DB().Collection("projects")

	fx.CreateProject(ctx, "Compiler")

	if _, err := projects.InsertOne(ctx, bson.M{"title": "No Stats", "slug": "no-stats"}); err == nil {
		t.Error("expected validation error for a project without click_stats")
	}

	tooMany := make([]models.ClickEvent, models.MaxRetainedClicks+1)
	for i := range tooMany {
		tooMany[i] = models.ClickEvent{ID: "e", Timestamp: time.Now().UTC()}
	}
	stats := models.EmptyClickStats()
	stats.LiveDemo.Clicks = tooMany
	_, err := projects.InsertOne(ctx, models.Project{Title: "Overfull", Slug: "overfull", ClickStats: stats})
	if err == nil {
		t.Error("expected validation error for a window larger than the cap")
	}
}

func TestSiteSettingsAndAuditValidators(t *testing.T) {
	fx := ensure(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateSettings(ctx, "Portfolio")

	if _, err := fx.DB().Collection("site_settings").InsertOne(ctx, bson.M{"tagline": "x"}); err == nil {
		t.Error("expected validation error for settings without site_name")
	}
	if _, err := fx.DB().Collection("audit_events").InsertOne(ctx, bson.M{
		"timestamp": time.Now(), "category": "billing", "event_type": "x",
	}); err == nil {
		t.Error("expected validation error for unknown audit category")
	}
}
