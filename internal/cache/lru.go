// Package cache provides an in-memory LRU cache with TTL used to
// cut repeated pivot recomputation for hot owner/kind pairs.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is a single cached snapshot payload.
type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// LRU is a fixed-capacity cache with per-entry expiration.
// All methods are safe for concurrent use.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element
}

// NewLRU builds a cache holding at most capacity entries, each valid
// for ttl after insertion. A capacity below 1 is raised to 1.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *LRU) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		c.order.Remove(el)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(el)
	return ent.value, true
}

// Set stores value under key, evicting the least recently used entry
// when the cache is full.
func (c *LRU) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		ent.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}

	ent := &entry{key: key, value: value, expiresAt: time.Now().Add(c.ttl)}
	c.items[key] = c.order.PushFront(ent)
}

// Delete removes key from the cache if present.
func (c *LRU) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

// DeletePrefix removes every entry whose key starts with prefix.
// Mutations invalidate all cached views for an owner/kind this way.
func (c *LRU) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.items {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.order.Remove(el)
			delete(c.items, key)
		}
	}
}

// Len reports the number of entries currently held, expired or not.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
