package hashing

import (
	"sync"
)

type cacheEntry[V any] struct {
	sig   Signature
	value V
}

// Cache remembers one value per board signature. It is safe for
// concurrent use. Entries whose Zobrist hash collides but whose weak hash
// differs are kept side by side.
type Cache[V any] struct {
	mu             sync.RWMutex
	table          map[uint64][]cacheEntry[V]
	maxCapacity    int
	size           int
	duplicateCount int
}

// NewCache creates a cache. maxCapacity of 0 means unlimited capacity;
// once full, Add stores nothing new but lookups keep working.
func NewCache[V any](maxCapacity int) *Cache[V] {
	if maxCapacity < 0 {
		maxCapacity = 0
	}
	return &Cache[V]{
		table:       make(map[uint64][]cacheEntry[V]),
		maxCapacity: maxCapacity,
	}
}

// Get returns the value stored for sig. A hit counts as a duplicate.
func (c *Cache[V]) Get(sig Signature) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.table[sig.Hash] {
		if e.sig.WeakHash == sig.WeakHash {
			c.duplicateCount++
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Add stores value for sig unless it is already present or the cache is
// full. It reports whether the value was stored.
func (c *Cache[V]) Add(sig Signature, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.table[sig.Hash] {
		if e.sig.WeakHash == sig.WeakHash {
			return false
		}
	}
	if c.isFull() {
		return false
	}
	c.table[sig.Hash] = append(c.table[sig.Hash], cacheEntry[V]{sig: sig, value: value})
	c.size++
	return true
}

// DuplicateCount returns the number of lookups that hit.
func (c *Cache[V]) DuplicateCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.duplicateCount
}

// UniqueCount returns the number of stored boards.
func (c *Cache[V]) UniqueCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// IsFull returns true if the cache has reached its capacity limit.
// Always returns false for unlimited capacity (maxCapacity = 0).
func (c *Cache[V]) IsFull() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isFull()
}

func (c *Cache[V]) isFull() bool {
	return c.maxCapacity > 0 && c.size >= c.maxCapacity
}

// Reset clears the cache.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = make(map[uint64][]cacheEntry[V])
	c.size = 0
	c.duplicateCount = 0
}
