// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/app/system/clientinfo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter is a per-key token bucket limiter. Keys idle for longer than the
// idle window are forgotten. It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	r       rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing perSecond requests per key with the given
// burst. perSecond <= 0 disables limiting.
func New(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		r:       rate.Limit(perSecond),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	if l.r <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.r, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// Prune drops keys not seen within the idle window and returns how many
// were removed.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	n := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Reset forgets key, giving it a full bucket on its next request.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Middleware limits requests per client IP and answers 429 JSON when the
// bucket is empty. onReject, when non-nil, is called for every rejection.
func (l *Limiter) Middleware(logger *zap.Logger, onReject func(r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientinfo.IP(r)
			if !l.Allow(ip) {
				if onReject != nil {
					onReject(r)
				}
				logger.Debug("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path))
				w.Header().Set("Retry-After", "1")
				apierr.Write(w, r, logger, apierr.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
