// Package cache provides the in-process TTL caches of the scaffold service:
// plan results in the service layer and idempotent replays in the HTTP layer.
package cache

// Cache stores values by string key.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics reports cache usage.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// WithMetrics is a Cache that reports usage.
type WithMetrics[V any] interface {
	Cache[V]
	Metrics() Metrics
}
