// internal/app/system/ratelimit/login.go
package ratelimit

import (
	"strings"
	"time"
)

// LoginLimiter throttles sign-in attempts per client IP and per email, so
// neither one address hammering many accounts nor many addresses
// hammering one account get unlimited guesses.
type LoginLimiter struct {
	ipLimiter    *Limiter
	emailLimiter *Limiter
}

// NewLoginLimiter allows ipLimit attempts per IP per ipWindow and
// emailLimit attempts per email per emailWindow, refilled steadily. A
// limit of 0 turns that side off.
func NewLoginLimiter(ipLimit int, ipWindow time.Duration, emailLimit int, emailWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ipLimiter:    New(perSecond(ipLimit, ipWindow), ipLimit),
		emailLimiter: New(perSecond(emailLimit, emailWindow), emailLimit),
	}
}

func perSecond(limit int, window time.Duration) float64 {
	if limit <= 0 || window <= 0 {
		return 0
	}
	return float64(limit) / window.Seconds()
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Allow reports whether an attempt from ip for email may proceed. The IP
// is checked first so a blocked address does not drain the account's
// allowance.
func (ll *LoginLimiter) Allow(ip, email string) bool {
	if !ll.ipLimiter.Allow(ip) {
		return false
	}
	if key := emailKey(email); key != "" {
		return ll.emailLimiter.Allow(key)
	}
	return true
}

// ResetEmail clears the account's allowance after a successful sign-in.
func (ll *LoginLimiter) ResetEmail(email string) {
	if key := emailKey(email); key != "" {
		ll.emailLimiter.Reset(key)
	}
}

// Prune drops idle keys on both sides.
func (ll *LoginLimiter) Prune() int {
	return ll.ipLimiter.Prune() + ll.emailLimiter.Prune()
}

// Len returns the number of tracked keys on both sides.
func (ll *LoginLimiter) Len() int {
	return ll.ipLimiter.Len() + ll.emailLimiter.Len()
}
