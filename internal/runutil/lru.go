// internal/runutil/lru.go
package runutil

import "container/list"

// DefaultLRUCapacity matches the memo size used for validation results.
const DefaultLRUCapacity = 10_000

// LRU is a size-bounded map with O(1) hit/insert and least-recently-used
// eviction. It is not safe for concurrent use; give each goroutine its own.
type LRU[K comparable, V any] struct {
	cap int
	ll  *list.List
	m   map[K]*list.Element
}

type lruNode[K comparable, V any] struct {
	k K
	v V
}

func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultLRUCapacity
	}
	return &LRU[K, V]{cap: capacity, ll: list.New(), m: make(map[K]*list.Element, capacity)}
}

// Get returns the cached value for k and marks it recently used.
func (c *LRU[K, V]) Get(k K) (V, bool) {
	if e, ok := c.m[k]; ok {
		c.ll.MoveToFront(e)
		return e.Value.(*lruNode[K, V]).v, true
	}
	var zero V
	return zero, false
}

// Add stores v under k, evicting the oldest entry once over capacity.
// It returns true if k was already present (its value is replaced).
func (c *LRU[K, V]) Add(k K, v V) bool {
	if e, ok := c.m[k]; ok {
		e.Value.(*lruNode[K, V]).v = v
		c.ll.MoveToFront(e)
		return true
	}
	e := c.ll.PushFront(&lruNode[K, V]{k: k, v: v})
	c.m[k] = e
	if c.ll.Len() > c.cap {
		tail := c.ll.Back()
		if tail != nil {
			c.ll.Remove(tail)
			delete(c.m, tail.Value.(*lruNode[K, V]).k)
		}
	}
	return false
}

func (c *LRU[K, V]) Len() int { return c.ll.Len() }

func (c *LRU[K, V]) Cap() int { return c.cap }
