package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache implements in-memory cache
type MemoryCache struct {
	entries   map[string]*Entry
	mutex     sync.RWMutex
	duration  time.Duration
	hitCount  int64
	missCount int64
}

// NewMemoryCache creates a new in-memory cache. Expired entries are dropped
// lazily on Get and in bulk by Sweep, which the server schedules.
func NewMemoryCache(duration time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:  make(map[string]*Entry),
		duration: duration,
	}
}

// Get retrieves an entry from cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.missCount++
		return nil, ErrCacheMiss
	}

	// Check if expired
	if time.Now().After(entry.ExpiresAt) {
		delete(c.entries, key)
		c.missCount++
		return nil, ErrCacheMiss
	}

	entry.AccessedAt = time.Now()
	entry.AccessCount++
	c.hitCount++

	return entry, nil
}

// Set stores an entry in cache
func (c *MemoryCache) Set(ctx context.Context, key string, entry *Entry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	entry.Key = key
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(c.duration)
	entry.AccessedAt = now
	entry.AccessCount = 0

	c.entries[key] = entry
	return nil
}

// Delete removes an entry from cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
	return nil
}

// Exists checks if an entry exists in cache
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(entry.ExpiresAt) {
		return false, nil
	}

	return true, nil
}

// Clear removes all entries from cache
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*Entry)
	c.hitCount = 0
	c.missCount = 0
	return nil
}

// Sweep removes expired entries and returns how many were dropped
func (c *MemoryCache) Sweep(ctx context.Context) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed, nil
}

// GetStats returns cache statistics
func (c *MemoryCache) GetStats(ctx context.Context) (*Stats, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := &Stats{
		TotalEntries: len(c.entries),
		HitCount:     c.hitCount,
		MissCount:    c.missCount,
	}

	if total := c.hitCount + c.missCount; total > 0 {
		stats.HitRate = float64(c.hitCount) / float64(total)
	}

	for _, entry := range c.entries {
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
	}

	return stats, nil
}

// Close is a no-op for the in-memory backend
func (c *MemoryCache) Close() error {
	return nil
}
