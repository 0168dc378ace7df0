package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLimiter_BurstThenBlock(t *testing.T) {
	l := New(1, 3)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request past burst should be blocked")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other keys have their own bucket")
	}

	fixed = fixed.Add(time.Second)
	if !l.Allow("1.2.3.4") {
		t.Error("a token should refill after one second")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := New(0, 1)
	for i := 0; i < 100; i++ {
		if !l.Allow("k") {
			t.Fatal("a zero rate disables limiting")
		}
	}
	if l.Len() != 0 {
		t.Errorf("disabled limiter should not track keys, got %d", l.Len())
	}
}

func TestLimiter_Prune(t *testing.T) {
	l := New(5, 5)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Allow("old")
	fixed = fixed.Add(15 * time.Minute)
	l.Allow("new")

	if n := l.Prune(); n != 1 {
		t.Errorf("Prune removed %d keys, want 1", n)
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, 1)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	rejected := 0
	h := l.Middleware(zap.NewNop(), func(*http.Request) { rejected++ })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/public/projects/track-click", nil)
		req.RemoteAddr = "203.0.113.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", code)
	}
	if rejected != 1 {
		t.Errorf("onReject called %d times, want 1", rejected)
	}
}

func TestMiddleware_ForwardedForDoesNotPickTheKey(t *testing.T) {
	l := New(1, 1)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	h := l.Middleware(zap.NewNop(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	passed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/public/projects/track-click", nil)
		req.RemoteAddr = "198.51.100.7:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			passed++
		}
	}
	if passed != 1 {
		t.Errorf("%d of 50 requests passed, want 1", passed)
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
}
