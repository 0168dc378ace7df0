package userinfo_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/portfolio/internal/app/features/userinfo"
	"github.com/dalemusser/portfolio/internal/testutil"
)

func TestServeUserInfo_Unauthenticated(t *testing.T) {
	h := userinfo.NewHandler()

	rec := testutil.NewRecorder()
	h.ServeUserInfo(rec, testutil.NewRequest(http.MethodGet, "/api/auth/me"))
	rec.AssertStatus(t, http.StatusOK)

	body := rec.DecodeJSON(t)
	if body["isAuthenticated"] != false {
		t.Errorf("isAuthenticated = %v, want false", body["isAuthenticated"])
	}
	if body["user"] != nil {
		t.Errorf("user = %v, want null", body["user"])
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestServeUserInfo_Authenticated(t *testing.T) {
	h := userinfo.NewHandler()
	u := testutil.AdminUser()

	rec := testutil.NewRecorder()
	h.ServeUserInfo(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/auth/me"), u))
	rec.AssertStatus(t, http.StatusOK)

	body := rec.DecodeJSON(t)
	if body["isAuthenticated"] != true {
		t.Fatalf("isAuthenticated = %v, want true", body["isAuthenticated"])
	}
	user := body["user"].(map[string]any)
	if user["id"] != u.ID || user["email"] != u.Email || user["role"] != "admin" {
		t.Errorf("user = %v", user)
	}
	if _, leaked := user["TokenVersion"]; leaked {
		t.Error("token version exposed")
	}
}
