package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_PerKeyBurst(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := New(1, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refilled")
	assert.False(t, rl.Allow("a"))
}

func TestCleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := New(1, 1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(2 * time.Minute)
	rl.Allow("fresh")

	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Len())
}

func TestStop_Idempotent(t *testing.T) {
	rl := New(1, 1, time.Minute)
	rl.StartCleanup(time.Millisecond)
	rl.Stop()
	rl.Stop()
}
