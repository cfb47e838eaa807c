// Package cache stores inference results keyed by task and input content so
// repeated submissions of the same text skip the model backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Cache interface defines cache operations
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	Sweep(ctx context.Context) (int, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// Entry represents a cached inference result
type Entry struct {
	Key         string    `json:"key"`
	Task        string    `json:"task"`
	Result      string    `json:"result"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccessedAt  time.Time `json:"accessed_at"`
	AccessCount int       `json:"access_count"`
}

// Stats represents cache statistics
type Stats struct {
	TotalEntries int       `json:"total_entries"`
	HitCount     int64     `json:"hit_count"`
	MissCount    int64     `json:"miss_count"`
	HitRate      float64   `json:"hit_rate"`
	OldestEntry  time.Time `json:"oldest_entry"`
}

// Key derives a cache key from the task, its options and the input text.
// User text is arbitrary and unbounded, so the key is a content hash.
func Key(task, options, text string) string {
	sum := sha256.Sum256([]byte(task + "|" + options + "|" + text))
	return hex.EncodeToString(sum[:])
}

// NewManager creates the cache backend selected by configuration
func NewManager(cacheType, bucket string, duration time.Duration) (Cache, error) {
	switch cacheType {
	case "", "memory":
		return NewMemoryCache(duration), nil
	case "cloud-storage":
		return NewCloudStorageCache(bucket, duration)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cacheType)
	}
}
