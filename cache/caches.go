package cache

import "github.com/poiesic/strategit/core"

// QueryCache caches full pipeline results under query + weight keys.
type QueryCache[V any] struct {
	cache *Cache[V]
}

// NewQueryCache creates a QueryCache with the given caps.
func NewQueryCache[V any](maxEntries int, maxBytes int64) (*QueryCache[V], error) {
	c, err := New[V](maxEntries, maxBytes)
	if err != nil {
		return nil, err
	}
	return &QueryCache[V]{cache: c}, nil
}

func (q *QueryCache[V]) Get(query string, weights core.WeightVector) (V, bool) {
	return q.cache.Get(QueryKey(query, weights))
}

func (q *QueryCache[V]) Set(query string, weights core.WeightVector, value V, size int64) {
	q.cache.Set(QueryKey(query, weights), value, size)
}

func (q *QueryCache[V]) Stats() Stats {
	return q.cache.Stats()
}

func (q *QueryCache[V]) Clear() {
	q.cache.Clear()
}

// BackendCache caches raw per-backend result lists.
type BackendCache struct {
	cache *Cache[[]core.RetrievedPassage]
}

// NewBackendCache creates a BackendCache with the given caps.
func NewBackendCache(maxEntries int, maxBytes int64) (*BackendCache, error) {
	c, err := New[[]core.RetrievedPassage](maxEntries, maxBytes)
	if err != nil {
		return nil, err
	}
	return &BackendCache{cache: c}, nil
}

func (b *BackendCache) Get(query string, backend core.Backend, topK int) ([]core.RetrievedPassage, bool) {
	return b.cache.Get(BackendKey(query, backend, topK))
}

// Set stores the passages with their estimated size.
func (b *BackendCache) Set(query string, backend core.Backend, topK int, passages []core.RetrievedPassage) {
	b.cache.Set(BackendKey(query, backend, topK), passages, PassagesSize(passages))
}

func (b *BackendCache) Stats() Stats {
	return b.cache.Stats()
}

func (b *BackendCache) Clear() {
	b.cache.Clear()
}
