package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/portfolio/internal/app/features/dashboard"
	"github.com/dalemusser/portfolio/internal/app/store/audit"
	"github.com/dalemusser/portfolio/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*dashboard.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return dashboard.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestServeDashboard_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewRequest(http.MethodGet, "/admin/dashboard"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeDashboard_NonAdmin(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/admin/dashboard"), testutil.RegularUser()))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeDashboard_Admin(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateAdmin(ctx, "Ada", "ada@example.com", "secret1")
	fx.CreateProject(ctx, "Compiler")
	fx.CreateProject(ctx, "Blog Engine")
	if err := audit.New(fx.DB()).Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true}); err != nil {
		t.Fatalf("log audit event: %v", err)
	}

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/admin/dashboard"), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	body := rec.DecodeJSON(t)
	counts := body["counts"].(map[string]any)
	if counts["projects"] != 2.0 {
		t.Errorf("projects: got %v, want 2", counts["projects"])
	}
	if got := len(body["topProjects"].([]any)); got != 2 {
		t.Errorf("topProjects: got %d, want 2", got)
	}
	if got := len(body["recentEvents"].([]any)); got != 1 {
		t.Errorf("recentEvents: got %d, want 1", got)
	}
}
