// Package cache provides result caching for generated flow graphs.
//
// The engine memoizes built graphs keyed by a canonical encoding of the view
// parameters. Three backends exist:
//   - MemoryCache: bounded in-process store with oldest-entry eviction
//   - RedisCache: shared store for multi-instance deployments
//   - NullCache: no-op, for tests and --no-cache runs
//
// All backends implement the same Cache interface and are safe for
// concurrent use. A concurrent double-miss for the same key may compute and
// insert twice; both inserts carry identical bytes, so this is wasteful but
// not incorrect.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for result-cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
