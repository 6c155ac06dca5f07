package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// lru is one shard: a bounded LRU list whose entries also expire after ttl.
type lru[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry[V]
	head     *entry[V]
	tail     *entry[V]
	// size is shared by all shards of a Sharded cache.
	size  *atomic.Int64
	stats *counters
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

// counters are the hit, miss and eviction totals of one shard.
type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func newLRU[V any](capacity int, ttl time.Duration, size *atomic.Int64) *lru[V] {
	return &lru[V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry[V], capacity),
		size:     size,
		stats:    &counters{},
	}
}

// get reports the value and whether it was present, expired or missing.
func (c *lru[V]) get(key string, at time.Time) (V, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.stats.misses.Add(1)
		return zero, resultMiss
	}
	if at.After(e.expiresAt) {
		c.remove(e)
		c.stats.misses.Add(1)
		return zero, resultExpired
	}

	c.moveToFront(e)
	c.stats.hits.Add(1)
	return e.value, resultHit
}

// set stores key and reports whether an entry was evicted to make room.
func (c *lru[V]) set(key string, value V, at time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = at.Add(c.ttl)
		c.moveToFront(e)
		return false
	}

	e := &entry[V]{key: key, value: value, expiresAt: at.Add(c.ttl)}
	c.items[key] = e
	c.pushFront(e)
	c.size.Add(1)

	if len(c.items) > c.capacity {
		c.remove(c.tail)
		c.stats.evictions.Add(1)
		return true
	}
	return false
}

func (c *lru[V]) invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.remove(e)
		return true
	}
	return false
}

// clear drops every entry and resets the counters.
func (c *lru[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.size.Add(-int64(len(c.items)))
	c.items = make(map[string]*entry[V], c.capacity)
	c.head, c.tail = nil, nil
	c.stats = &counters{}
}

// expire drops entries whose deadline is before at.
func (c *lru[V]) expire(at time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.items {
		if at.After(e.expiresAt) {
			c.remove(e)
			n++
		}
	}
	return n
}

func (c *lru[V]) metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Metrics{
		Hits:      c.stats.hits.Load(),
		Misses:    c.stats.misses.Load(),
		Evictions: c.stats.evictions.Load(),
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

func (c *lru[V]) remove(e *entry[V]) {
	delete(c.items, e.key)
	c.unlink(e)
	c.size.Add(-1)
}

func (c *lru[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *lru[V]) pushFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lru[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
