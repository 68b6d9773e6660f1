package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry pairs a cached value with its accounted size.
type entry[V any] struct {
	value V
	size  int64
}

// Stats is a point-in-time view of cache effectiveness. Hits and Misses
// are monotonic until Clear.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Entries   int
	UsedBytes int64
	MaxBytes  int64
}

// Cache is an LRU bounded by both entry count and total accounted bytes.
// It is safe for concurrent use.
type Cache[V any] struct {
	mu         sync.Mutex
	lru        *lru.Cache[string, entry[V]]
	maxEntries int
	maxBytes   int64
	usedBytes  int64
	hits       uint64
	misses     uint64
}

// New creates a cache capped at maxEntries items and maxBytes accounted
// bytes.
func New[V any](maxEntries int, maxBytes int64) (*Cache[V], error) {
	if maxEntries < 1 {
		return nil, fmt.Errorf("max entries must be positive, got %d", maxEntries)
	}
	if maxBytes < 1 {
		return nil, fmt.Errorf("max bytes must be positive, got %d", maxBytes)
	}

	c := &Cache[V]{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
	}

	// The eviction callback runs synchronously under c.mu (every LRU
	// mutation happens there), so it must not take the lock itself.
	inner, err := lru.NewWithEvict[string, entry[V]](maxEntries, func(_ string, e entry[V]) {
		c.usedBytes -= e.size
		if c.usedBytes < 0 {
			c.usedBytes = 0
		}
	})
	if err != nil {
		return nil, err
	}
	c.lru = inner

	return c, nil
}

// Get returns the cached value for key and records a hit or miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value with its accounted size, evicting least-recently
// used entries first so neither cap is exceeded after the insert. A value
// larger than the whole byte budget is not retained.
func (c *Cache[V]) Set(key string, value V, size int64) {
	if size < 0 {
		size = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Replacing an entry gives its bytes back first.
	c.lru.Remove(key)

	if size > c.maxBytes {
		return
	}

	for c.lru.Len() > 0 && (c.usedBytes+size > c.maxBytes || c.lru.Len() >= c.maxEntries) {
		c.lru.RemoveOldest()
	}

	c.lru.Add(key, entry[V]{value: value, size: size})
	c.usedBytes += size
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns current counters and occupancy.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Entries:   c.lru.Len(),
		UsedBytes: c.usedBytes,
		MaxBytes:  c.maxBytes,
	}
}

// Clear empties the cache and resets the hit/miss counters.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
	c.usedBytes = 0
	c.hits = 0
	c.misses = 0
}
