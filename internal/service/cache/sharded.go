package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/scaffold-service/internal/metrics"
)

const (
	defaultShards   = 16
	cleanupInterval = time.Minute
)

// Lookup results reported to metrics.
const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultExpired = "expired"
)

// Sharded spreads entries over power-of-two LRU shards keyed by an FNV hash
// of the key. Operations are published to Prometheus under the cache name.
type Sharded[V any] struct {
	name      string
	shards    []*lru[V]
	shardMask uint32
	capacity  int
	size      atomic.Int64
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewSharded creates a cache of the given total capacity. numShards is
// rounded up to a power of two; zero or negative means 16. A background
// goroutine drops expired entries until Stop is called.
func NewSharded[V any](name string, capacity int, ttl time.Duration, numShards int) *Sharded[V] {
	if numShards <= 0 {
		numShards = defaultShards
	}
	n := 1
	for n < numShards {
		n *= 2
	}

	perShard := max(1, capacity/n)
	c := &Sharded[V]{
		name:      name,
		shards:    make([]*lru[V], n),
		shardMask: uint32(n - 1),
		capacity:  perShard * n,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
	for i := range c.shards {
		c.shards[i] = newLRU[V](perShard, ttl, &c.size)
	}

	metrics.UpdateCacheMetrics(name, 0, c.capacity)
	go c.cleanupLoop()
	return c
}

func (c *Sharded[V]) shard(key string) *lru[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()&c.shardMask]
}

// Get returns the value for key unless it is missing or expired.
func (c *Sharded[V]) Get(key string) (V, bool) {
	value, result := c.shard(key).get(key, c.now())
	metrics.RecordCacheOperation(c.name, "get", result)
	if result == resultExpired {
		c.publishSize()
	}
	return value, result == resultHit
}

// Set adds or refreshes key, evicting the shard's least recently used entry
// when it is full.
func (c *Sharded[V]) Set(key string, value V) {
	if c.shard(key).set(key, value, c.now()) {
		metrics.RecordCacheOperation(c.name, "evict", "capacity")
	}
	metrics.RecordCacheOperation(c.name, "set", "success")
	c.publishSize()
}

// Invalidate removes one key.
func (c *Sharded[V]) Invalidate(key string) {
	if c.shard(key).invalidate(key) {
		metrics.RecordCacheOperation(c.name, "invalidate", "success")
		c.publishSize()
	}
}

// Clear empties every shard and resets the counters.
func (c *Sharded[V]) Clear() {
	for _, s := range c.shards {
		s.clear()
	}
	metrics.RecordCacheOperation(c.name, "clear", "success")
	c.publishSize()
}

// Stop ends the cleanup goroutine. Safe to call twice.
func (c *Sharded[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// Metrics sums the metrics of all shards.
func (c *Sharded[V]) Metrics() Metrics {
	var total Metrics
	for _, s := range c.shards {
		m := s.metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

func (c *Sharded[V]) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.expire()
		case <-c.stopCh:
			return
		}
	}
}

// expire drops expired entries from every shard.
func (c *Sharded[V]) expire() int {
	at := c.now()
	n := 0
	for _, s := range c.shards {
		n += s.expire(at)
	}
	if n > 0 {
		c.publishSize()
	}
	return n
}

func (c *Sharded[V]) publishSize() {
	metrics.UpdateCacheMetrics(c.name, int(c.size.Load()), c.capacity)
}
