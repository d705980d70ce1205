// Package cache is a small in-process LRU used for lookups that rarely change,
// such as user display names.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a size bounded least-recently-used cache safe for concurrent use.
type LRU[V any] struct {
	mu    sync.Mutex
	idx   map[string]*list.Element
	order *list.List
	size  int
}

type item[V any] struct {
	key   string
	value V
}

// NewLRU creates a cache holding at most size entries. A size of zero or less
// means unbounded.
func NewLRU[V any](size int) *LRU[V] {
	return &LRU[V]{
		idx:   make(map[string]*list.Element),
		order: list.New(),
		size:  size,
	}
}

// Get returns the value stored under key and marks it as recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.idx[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*item[V]).value, true
}

// Put stores value under key, expiring the least recently used entries.
func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.idx[key]; ok {
		el.Value.(*item[V]).value = value
		c.order.MoveToFront(el)
		return
	}
	c.idx[key] = c.order.PushFront(&item[V]{key: key, value: value})

	// expire old
	for c.size > 0 && len(c.idx) > c.size {
		it := c.order.Remove(c.order.Back()).(*item[V])
		delete(c.idx, it.key)
	}
}

// Del removes key.
func (c *LRU[V]) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.idx[key]; ok {
		c.order.Remove(el)
		delete(c.idx, key)
	}
}

// Len returns the number of cached entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.idx)
}
