package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultCapacity is the default entry bound for MemoryCache.
const DefaultCapacity = 128

// MemoryCache is a bounded in-process cache. Once the capacity is exceeded,
// the oldest inserted entry is evicted. Reads do not refresh entry age:
// eviction is strictly insertion-ordered, which keeps repeated identical
// requests reproducible regardless of interleaving.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = oldest
}

type memoryEntry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a memory cache bounded to capacity entries.
// A capacity <= 0 falls back to DefaultCapacity.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry := el.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.removeLocked(el)
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set stores a value, evicting the oldest entry if the capacity is exceeded.
// Re-setting an existing key updates it in place without changing its age.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.data = data
		entry.expiresAt = expires
		return nil
	}

	el := c.order.PushBack(&memoryEntry{key: key, data: data, expiresAt: expires})
	c.entries[key] = el

	for c.order.Len() > c.capacity {
		c.removeLocked(c.order.Front())
	}
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
	return nil
}

// Len returns the current number of entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Close does nothing for the memory cache.
func (c *MemoryCache) Close() error { return nil }

func (c *MemoryCache) removeLocked(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	delete(c.entries, entry.key)
	c.order.Remove(el)
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
