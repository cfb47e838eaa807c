package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// CloudStorageCache implements cache on Google Cloud Storage with JSON
// objects, so results survive restarts and serverless cold starts.
type CloudStorageCache struct {
	client     *storage.Client
	bucketName string
	duration   time.Duration
	prefix     string
}

// NewCloudStorageCache creates a new Cloud Storage cache
func NewCloudStorageCache(bucketName string, duration time.Duration) (*CloudStorageCache, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &CloudStorageCache{
		client:     client,
		bucketName: bucketName,
		duration:   duration,
		prefix:     "results/",
	}, nil
}

// Get retrieves an entry from Cloud Storage
func (c *CloudStorageCache) Get(ctx context.Context, key string) (*Entry, error) {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("opening object reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading object data: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling cache entry: %w", err)
	}

	// Check if expired
	if time.Now().After(entry.ExpiresAt) {
		if err := c.Delete(ctx, key); err != nil {
			log.Printf("Warning: failed to delete expired cache entry %s: %v", key, err)
		}
		return nil, ErrCacheMiss
	}

	entry.AccessedAt = time.Now()
	entry.AccessCount++

	return &entry, nil
}

// Set stores an entry in Cloud Storage
func (c *CloudStorageCache) Set(ctx context.Context, key string, entry *Entry) error {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))

	now := time.Now()
	entry.Key = key
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.ExpiresAt = now.Add(c.duration)
	if entry.AccessedAt.IsZero() {
		entry.AccessedAt = now
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing object data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}

	return nil
}

// Delete removes an entry from Cloud Storage
func (c *CloudStorageCache) Delete(ctx context.Context, key string) error {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))

	if err := obj.Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// Exists checks if an entry exists in Cloud Storage
func (c *CloudStorageCache) Exists(ctx context.Context, key string) (bool, error) {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))

	if _, err := obj.Attrs(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, fmt.Errorf("checking object attributes: %w", err)
	}
	return true, nil
}

// Clear removes all entries under the cache prefix
func (c *CloudStorageCache) Clear(ctx context.Context) error {
	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: c.prefix})

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}
		if err := c.client.Bucket(c.bucketName).Object(attrs.Name).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
			return fmt.Errorf("deleting object %s: %w", attrs.Name, err)
		}
	}

	return nil
}

// Sweep removes expired entries and returns how many were dropped
func (c *CloudStorageCache) Sweep(ctx context.Context) (int, error) {
	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: c.prefix})

	removed := 0
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, fmt.Errorf("listing objects: %w", err)
		}

		// Set rewrites ExpiresAt on every write, so object age is a safe
		// proxy for expiry without reading each entry body.
		if time.Since(attrs.Updated) < c.duration {
			continue
		}
		if err := c.client.Bucket(c.bucketName).Object(attrs.Name).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
			return removed, fmt.Errorf("deleting object %s: %w", attrs.Name, err)
		}
		removed++
	}

	return removed, nil
}

// GetStats returns cache statistics. Hit counters are not tracked across
// processes, so only entry counts and ages are reported.
func (c *CloudStorageCache) GetStats(ctx context.Context) (*Stats, error) {
	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: c.prefix})

	stats := &Stats{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}

		stats.TotalEntries++
		if stats.OldestEntry.IsZero() || attrs.Created.Before(stats.OldestEntry) {
			stats.OldestEntry = attrs.Created
		}
	}

	return stats, nil
}

// Close releases the storage client
func (c *CloudStorageCache) Close() error {
	return c.client.Close()
}

func (c *CloudStorageCache) objectName(key string) string {
	return c.prefix + key + ".json"
}
