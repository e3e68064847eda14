package cache

import (
	"sync"
	"time"

	"insightpdf/internal/adapter/index"
)

// SessionCache keeps deserialized indexes in memory so repeated queries
// against the same session skip the store round trip and decode. The
// session store remains the source of truth; this is purely an
// optimization and entries can vanish at any time.
type SessionCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	index     *index.Flat
	timestamp time.Time
}

func NewSessionCache(maxSize int, ttl time.Duration) *SessionCache {
	if maxSize <= 0 {
		maxSize = 16
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SessionCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *SessionCache) Get(sessionID string) (*index.Flat, bool) {
	c.mu.RLock()
	entry, exists := c.entries[sessionID]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, sessionID)
		c.removeFromOrder(sessionID)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.moveToEnd(sessionID)
	c.mu.Unlock()

	return entry.index, true
}

func (c *SessionCache) Put(sessionID string, ix *index.Flat) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[sessionID]; exists {
		c.entries[sessionID] = &cacheEntry{index: ix, timestamp: time.Now()}
		c.moveToEnd(sessionID)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[sessionID] = &cacheEntry{index: ix, timestamp: time.Now()}
	c.order = append(c.order, sessionID)
}

// Invalidate drops one session, e.g. after its record was replaced.
func (c *SessionCache) Invalidate(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionID)
	c.removeFromOrder(sessionID)
}

func (c *SessionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *SessionCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *SessionCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *SessionCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
