// Package ratelimiter keeps one token bucket per key, such as a client IP.
package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting. Buckets idle for longer
// than the expiration time are dropped by Cleanup.
type KeyedRateLimiter struct {
	mu             sync.Mutex
	buckets        map[string]*bucket
	limit          rate.Limit
	burst          int
	expirationTime time.Duration
	now            func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a limiter allowing rps requests per second with the given burst per key.
func New(rps float64, burst int, expirationTime time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets:        make(map[string]*bucket),
		limit:          rate.Limit(rps),
		burst:          burst,
		expirationTime: expirationTime,
		now:            time.Now,
		done:           make(chan struct{}),
	}
}

// Allow reports whether a request for key may proceed now.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	b, ok := krl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.buckets[key] = b
	}
	now := krl.now()
	b.lastSeen = now
	krl.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Cleanup drops buckets not used within the expiration time and returns
// how many were dropped.
func (krl *KeyedRateLimiter) Cleanup() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	cutoff := krl.now().Add(-krl.expirationTime)
	removed := 0
	for key, b := range krl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(krl.buckets, key)
			removed++
		}
	}
	return removed
}

func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.buckets)
}

// StartCleanup runs Cleanup every interval until Stop is called.
func (krl *KeyedRateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-krl.done:
				return
			case <-ticker.C:
				krl.Cleanup()
			}
		}
	}()
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}
