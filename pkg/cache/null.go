package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It is the engine's
// default backend: with no cache configured, every request regenerates its
// graph, which is always correct because generation is deterministic.
type NullCache struct{}

// NewNullCache creates the no-op backend.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op; there is never anything to delete.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close releases nothing.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
