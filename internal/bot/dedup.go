package bot

import (
	"sync"
	"time"
)

const defaultDedupTTL = 30 * time.Second

// dedupCache remembers which decision slots a bot already acted on, so a
// repeated notification cannot trigger a second submission for the same turn.
type dedupCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
}

func newDedupCache(ttl time.Duration) *dedupCache {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &dedupCache{ttl: ttl, seen: make(map[string]time.Time)}
}

// Once records the key and reports whether this is its first appearance
// within the TTL window.
func (c *dedupCache) Once(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if stamp, ok := c.seen[key]; ok && now.Sub(stamp) < c.ttl {
		return false
	}
	// Sweep expired entries while the lock is held.
	for k, stamp := range c.seen {
		if now.Sub(stamp) >= c.ttl {
			delete(c.seen, k)
		}
	}
	c.seen[key] = now
	return true
}

// Forget drops a key so the slot can be retried after a rejection.
func (c *dedupCache) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seen, key)
}

// Clear wipes every slot. Phase changes invalidate all pending decisions.
func (c *dedupCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[string]time.Time)
}
