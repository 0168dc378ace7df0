// Package timeouts provides the deadlines used with context.WithTimeout
// around database work in handlers.
//
//   - Ping: health checks
//   - Short: single-document reads and writes (login, profile, click tracking)
//   - Medium: list queries and startup work (index creation, admin bootstrap)
package timeouts

import (
	"os"
	"sync"
	"time"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
)

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for single-document operations.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for list queries and startup tasks.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Config holds timeout overrides. Zero values keep the current setting.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
}

// Configure applies overrides. Call it during startup, before handlers run.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
}

// Reset restores the defaults. Useful in tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium = DefaultPing, DefaultShort, DefaultMedium
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_SHORT and TIMEOUT_MEDIUM
// (Go duration strings). Invalid or non-positive values are ignored.
// It returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, e := range []struct {
		key string
		dst *time.Duration
	}{
		{"TIMEOUT_PING", &cfg.Ping},
		{"TIMEOUT_SHORT", &cfg.Short},
		{"TIMEOUT_MEDIUM", &cfg.Medium},
	} {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*e.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium}
}
