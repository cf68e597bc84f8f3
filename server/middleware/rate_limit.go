// Package middleware provides request-level guards shared by the HTTP
// handlers.
package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// limiterIdleAge is how long a key's limiter state is kept after its last
	// request before it is eligible for pruning.
	limiterIdleAge = 10 * time.Minute
	// defaultMaxIdleKeys is the map size past which idle keys are pruned
	// before a new key is admitted.
	defaultMaxIdleKeys = 1024
)

// RateLimiter bounds per-key request rates. Keys are caller-supplied session
// identifiers, so one chatty session cannot starve the others; idle keys are
// pruned in place once the map grows past a threshold, keeping caller-chosen
// identifiers from growing it without bound.
type RateLimiter struct {
	mu          sync.Mutex
	limits      map[string]*limiterEntry
	limit       rate.Limit
	burst       int
	maxIdleKeys int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter allowing perMinute requests per key
// with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	if burst <= 0 {
		burst = 5
	}
	return &RateLimiter{
		limits:      make(map[string]*limiterEntry),
		limit:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:       burst,
		maxIdleKeys: defaultMaxIdleKeys,
	}
}

// Allow reports whether a request for the given key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Prune drops limiter state for keys idle longer than maxAge. Returns the
// number of keys removed.
func (rl *RateLimiter) Prune(maxAge time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.pruneLocked(maxAge)
}

func (rl *RateLimiter) pruneLocked(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, entry := range rl.limits {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limits, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, ok := rl.limits[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	if len(rl.limits) >= rl.maxIdleKeys {
		rl.pruneLocked(limiterIdleAge)
	}

	entry := &limiterEntry{
		limiter:  rate.NewLimiter(rl.limit, rl.burst),
		lastSeen: time.Now(),
	}
	rl.limits[key] = entry
	return entry.limiter
}
