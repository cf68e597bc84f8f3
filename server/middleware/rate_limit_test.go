package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(60, 2)

	// Burst of 2, then the third immediate request is refused.
	assert.True(t, rl.Allow("s1"))
	assert.True(t, rl.Allow("s1"))
	assert.False(t, rl.Allow("s1"))

	// Keys are independent.
	assert.True(t, rl.Allow("s2"))
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	rl.Allow("s1")
	rl.Allow("s2")

	assert.Equal(t, 0, rl.Prune(time.Hour))
	assert.Equal(t, 2, rl.Prune(-time.Millisecond))
}

func TestRateLimiter_PrunesIdleKeysInline(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	rl.maxIdleKeys = 2

	rl.Allow("s1")
	rl.Allow("s2")

	rl.mu.Lock()
	for _, entry := range rl.limits {
		entry.lastSeen = time.Now().Add(-2 * limiterIdleAge)
	}
	rl.mu.Unlock()

	// Admitting a new key past the threshold evicts the idle ones.
	rl.Allow("s3")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.limits, 1)
	_, ok := rl.limits["s3"]
	assert.True(t, ok)
}
