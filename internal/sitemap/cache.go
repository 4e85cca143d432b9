package sitemap

import (
	"sync"
	"time"
)

// renderCache keeps the last rendered document for a bounded period.
// A TTL of zero disables caching entirely.
type renderCache struct {
	mu    sync.RWMutex
	value string
	setAt time.Time
	ttl   time.Duration
}

func newRenderCache(ttl time.Duration) *renderCache {
	return &renderCache{ttl: ttl}
}

// Get returns the cached document and whether it is still fresh.
func (c *renderCache) Get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.validLocked() {
		return "", false
	}
	return c.value, true
}

// Set stores a freshly rendered document. A no-op when caching is disabled.
func (c *renderCache) Set(value string) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.value = value
	c.setAt = time.Now()
	c.mu.Unlock()
}

// Invalidate clears the cache so the next render recomputes.
func (c *renderCache) Invalidate() {
	c.mu.Lock()
	c.value = ""
	c.setAt = time.Time{}
	c.mu.Unlock()
}

func (c *renderCache) validLocked() bool {
	return c.ttl > 0 && c.value != "" && time.Since(c.setAt) <= c.ttl
}
