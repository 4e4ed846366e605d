package audit

import (
	"sync"
	"time"

	"guardrails/internal/storage"
)

// windowCache memoizes window queries keyed by the window start,
// truncated to the minute so near-identical windows share an entry.
type windowCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]windowEntry
}

type windowEntry struct {
	events    []*storage.AuditEvent
	expiresAt time.Time
}

func newWindowCache(ttl time.Duration) *windowCache {
	return &windowCache{
		ttl:     ttl,
		entries: make(map[int64]windowEntry),
	}
}

func windowKey(since time.Time) int64 {
	return since.Truncate(time.Minute).Unix()
}

func (c *windowCache) get(since time.Time) ([]*storage.AuditEvent, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[windowKey(since)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.events, true
}

func (c *windowCache) put(since time.Time, events []*storage.AuditEvent) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[windowKey(since)] = windowEntry{
		events:    events,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *windowCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]windowEntry)
}
