package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID           string
	Name         string
	Email        string
	Role         string
	TokenVersion int
}

// AdminUser returns a TestUser with admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  "admin",
	}
}

// RegularUser returns a TestUser without admin rights.
func RegularUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test User",
		Email: "user@test.com",
		Role:  "user",
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
}

// NewRequest creates a request without a body.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON. A string
// v is sent as-is so tests can post malformed bodies.
func NewJSONRequest(method, target string, v any) *http.Request {
	var body []byte
	switch x := v.(type) {
	case string:
		body = []byte(x)
	default:
		body, _ = json.Marshal(v)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewAuthenticatedRequest creates a JSON request carrying user.
func NewAuthenticatedRequest(method, target string, v any, user TestUser) *http.Request {
	return WithUser(NewJSONRequest(method, target, v), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertion helpers.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("expected status %d, got %d (body: %s)", expected, r.Code, r.Body.String())
	}
}

// AssertContains checks the body contains expected.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("expected body to contain %q, got %s", expected, r.Body.String())
	}
}

// DecodeJSON decodes the response body into a generic map.
func (r *ResponseRecorder) DecodeJSON(t interface{ Fatalf(string, ...any) }) map[string]any {
	var out map[string]any
	if err := json.Unmarshal(r.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body: %v (body: %s)", err, r.Body.String())
	}
	return out
}
