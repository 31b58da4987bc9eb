// Package cache provides a small, concurrency-safe key/value store
// with a fixed capacity and FIFO eviction.
//
// Entries age by insertion order only: reading a key does not protect
// it from eviction, and overwriting a key keeps its original position
// in the eviction queue. When an insert would exceed the configured
// capacity, the oldest-inserted entry is removed first.
//
// All operations share a single critical section, so a concurrent
// reader never observes a partially updated entry.
package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 100

// entry is the value stored in the eviction list. It carries the key
// so eviction can remove the map slot without a reverse index.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is a bounded key/value store with FIFO eviction.
//
// Type parameters:
//   - K: the key type (must be comparable)
//   - V: the stored value type
//
// The zero value is not usable; construct with New.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = newest insertion, back = oldest

	hits      uint64
	misses    uint64
	evictions uint64
	sets      uint64
}

// New creates a Cache holding at most capacity entries. A capacity
// of zero or less falls back to DefaultCapacity.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the value stored for key. The second return value is
// false when the key is absent; absence is a normal outcome, not an
// error. Lookups do not affect eviction order.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return elem.Value.(*entry[K, V]).value, true
}

// Set inserts or overwrites the value for key. Overwriting keeps the
// entry's original insertion position. Inserting a new key at capacity
// evicts the oldest-inserted entry first.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
}

// evictOldest removes the entry at the back of the insertion order.
// Callers must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*entry[K, V]).key)
	c.evictions++
}

// Len reports the number of entries currently stored.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity reports the fixed maximum number of entries. It is set at
// construction and never changes.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Clear removes every entry. Counters are kept so Stats still reflects
// the cache's full history. Intended for teardown.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Sets      uint64
}

// HitRate returns the fraction of lookups served from the cache, or 0
// if no lookups have happened yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      c.order.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Sets:      c.sets,
	}
}
