// Package querycache memoizes backend reads for a short time and collapses
// concurrent identical reads into one call.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/henhouse-dev/henhouse/shared/logger"
	"github.com/henhouse-dev/henhouse/shared/middleware/metrics"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	// generation counts Invalidate calls; a fetch started before the
	// latest one must not store its result.
	generation uint64
	inflight   map[string]int
	group      singleflight.Group
	ttl        time.Duration
	now        func() time.Time
}

// New creates a cache whose entries live for ttl unless Get overrides it.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries:  make(map[string]entry),
		inflight: make(map[string]int),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Key joins parts into a cache key. The session id belongs among the parts
// of any read whose result depends on who asks.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Get returns the cached value for key or calls fetch, storing a successful
// result for ttl (the cache default when ttl <= 0). Errors are not cached.
// Concurrent callers for the same key share a single fetch.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		metrics.ObserveCacheLookup("hit")
		return v, nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		started := c.generation
		c.inflight[key]++
		c.mu.Unlock()

		// one caller going away must not fail the others
		v, err := fetch(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.inflight[key]--; c.inflight[key] <= 0 {
			delete(c.inflight, key)
		}
		if err != nil {
			return nil, err
		}
		if c.generation == started {
			c.entries[key] = entry{value: v, expiresAt: c.now().Add(ttl)}
		}
		return v, nil
	})
	if shared {
		metrics.ObserveCacheLookup("shared")
	} else {
		metrics.ObserveCacheLookup("miss")
	}
	return v, err
}

// Fetch is the typed form of Cache.Get.
func Fetch[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, 0, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every entry whose key starts with prefix. Fetches still
// running for such keys are detached: their results are not stored and
// later callers start a fresh fetch instead of joining them.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	for key := range c.inflight {
		if strings.HasPrefix(key, prefix) {
			c.group.Forget(key)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	evicted := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// StartJanitor evicts expired entries every interval until ctx is done.
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.evictExpired(); n > 0 {
					logger.Log.Debug("query cache evicted expired entries", "count", n)
				}
			}
		}
	}()
}
