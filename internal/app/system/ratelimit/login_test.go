package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func fixedLoginLimiter(ipLimit, emailLimit int) *LoginLimiter {
	ll := NewLoginLimiter(ipLimit, time.Minute, emailLimit, 5*time.Minute)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ll.ipLimiter.now = func() time.Time { return fixed }
	ll.emailLimiter.now = func() time.Time { return fixed }
	return ll
}

func TestLoginLimiter_PerEmail(t *testing.T) {
	ll := fixedLoginLimiter(100, 5)

	// Different addresses, same account.
	for i := 0; i < 5; i++ {
		if !ll.Allow(fmt.Sprintf("203.0.113.%d", i+1), "Ada@Example.com") {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if ll.Allow("203.0.113.99", " ada@example.com ") {
		t.Error("sixth attempt for the account allowed, want blocked")
	}
	if !ll.Allow("203.0.113.99", "other@example.com") {
		t.Error("other account blocked")
	}

	ll.ResetEmail("ADA@example.com")
	if !ll.Allow("203.0.113.98", "ada@example.com") {
		t.Error("attempt after reset blocked")
	}
}

func TestLoginLimiter_PerIP(t *testing.T) {
	ll := fixedLoginLimiter(10, 100)

	for i := 0; i < 10; i++ {
		if !ll.Allow("198.51.100.1", fmt.Sprintf("user%d@example.com", i)) {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if ll.Allow("198.51.100.1", "new@example.com") {
		t.Error("eleventh attempt from the IP allowed, want blocked")
	}
	// The blocked attempt did not touch the account bucket.
	if got := ll.Len(); got != 11 {
		t.Errorf("Len = %d, want 11 (1 ip + 10 emails)", got)
	}
}

func TestLoginLimiter_Disabled(t *testing.T) {
	ll := fixedLoginLimiter(0, 0)
	for i := 0; i < 50; i++ {
		if !ll.Allow("198.51.100.1", "ada@example.com") {
			t.Fatal("disabled limiter blocked an attempt")
		}
	}
}
