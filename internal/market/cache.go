package market

import (
	"sync"
	"time"
)

// Cache keeps recently built contexts for a bounded time, keyed by context
// ID. It exists so repeated evaluations inside one bar (UI refresh, audit
// queries) do not redo level detection.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
}

type cacheEntry struct {
	ctx      *Context
	storedAt time.Time
}

func NewCache(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns the cached context if present and not expired.
func (c *Cache) Get(id string) (*Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) > c.ttl {
		delete(c.entries, id)
		return nil, false
	}
	return e.ctx, true
}

// Put stores a context, evicting the oldest entry when full.
func (c *Cache) Put(ctx *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[ctx.ContextID] = cacheEntry{ctx: ctx, storedAt: time.Now()}
}

func (c *Cache) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, e := range c.entries {
		if oldestID == "" || e.storedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.storedAt
		}
	}
	if oldestID != "" {
		delete(c.entries, oldestID)
	}
}

// Len returns the number of cached contexts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
