// Package cache provides the in-memory read-through cache used by the task
// pipeline. Entries are pure derived views of store state: a mutation never
// writes through the cache, it invalidates the affected keys and the next
// read repopulates them from the store.
package cache

import "sync"

// Cache is a concurrency-safe keyed cache. Operations are atomic per key:
// no reader observes a half-populated or half-invalidated entry, and an
// invalidation is visible to every subsequent Get on that key.
//
// There is no eviction policy. The contract only requires that an
// invalidated key never serves its old value before repopulation; an
// unbounded map satisfies that.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]V),
	}
}

// Get returns the cached value for key and whether it was present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key, replacing any existing entry.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate removes the entry for key, if any.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll removes the entries for every given key in one critical
// section, so a concurrent reader sees either none or all of them removed.
func (c *Cache[K, V]) InvalidateAll(keys ...K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
