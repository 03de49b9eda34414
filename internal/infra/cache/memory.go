package cache

import (
	"context"
	"sync"
	"time"

	"erp-portal/internal/session"
)

type memoryEntry struct {
	sess       *session.Session
	expiryTime time.Time
}

// MemoryCache is an in-process SessionCache
type MemoryCache struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached session if present and not expired
func (c *MemoryCache) Get(_ context.Context, key string) (*session.Session, bool) {
	c.mutex.RLock()
	entry, found := c.entries[key]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.expiryTime) {
		return entry.sess, true
	}
	return nil, false
}

// Set stores sess for ttl. A non-positive ttl is ignored.
func (c *MemoryCache) Set(_ context.Context, key string, sess *session.Session, ttl time.Duration) {
	if ttl <= 0 || sess == nil {
		return
	}
	c.mutex.Lock()
	c.entries[key] = memoryEntry{
		sess:       sess,
		expiryTime: c.now().Add(ttl),
	}
	c.mutex.Unlock()
}

// Purge drops every entry
func (c *MemoryCache) Purge(_ context.Context) {
	c.mutex.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mutex.Unlock()
}

// Sweep removes expired entries
func (c *MemoryCache) Sweep() {
	now := c.now()
	c.mutex.Lock()
	for key, entry := range c.entries {
		if !now.Before(entry.expiryTime) {
			delete(c.entries, key)
		}
	}
	c.mutex.Unlock()
}

// Len reports the number of stored entries, expired or not
func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// RunSweeper calls Sweep every interval until ctx is done
func (c *MemoryCache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweep
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
