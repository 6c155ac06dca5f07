package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/metrics"
)

const (
	rateLimiterShards = 16
	// sweepInterval is how often idle buckets are dropped.
	sweepInterval = time.Minute
)

// KeyFunc picks the bucket a request is charged against.
type KeyFunc func(c *gin.Context) string

// KeyByClientIP charges requests to the client address.
func KeyByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// KeyByCaller charges requests to the authenticated caller within their
// tenant, or to the client address when no identity is set.
func KeyByCaller(c *gin.Context) string {
	claims, ok := GetClaims(c)
	if !ok || claims.UserID == "" {
		return KeyByClientIP(c)
	}
	return "caller:" + claims.TenantID + "/" + claims.UserID
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// RateLimiter keeps one token bucket per key. Each bucket holds up to
// requests tokens and refills at requests per window.
type RateLimiter struct {
	requests int
	window   time.Duration
	limit    rate.Limit
	shards   [rateLimiterShards]limiterShard
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter allowing requests per window for each key.
// Call Stop to end its sweeper.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		requests: requests,
		window:   window,
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	for i := range rl.shards {
		rl.shards[i].buckets = make(map[string]*bucket)
	}
	go rl.sweepLoop()
	return rl
}

func (rl *RateLimiter) shard(key string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &rl.shards[h.Sum32()%rateLimiterShards]
}

// take charges one request to key. It reports the tokens left and, when the
// bucket is empty, how long until the next token.
func (rl *RateLimiter) take(key string) (remaining int, retryAfter time.Duration) {
	now := rl.now()
	s := rl.shard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.requests)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return 0, rl.window
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return 0, delay
	}
	return int(math.Max(0, b.limiter.TokensAt(now))), 0
}

// Middleware rejects requests with 429 once the bucket chosen by key is
// empty. Every response carries X-RateLimit-Limit and X-RateLimit-Remaining;
// rejections add Retry-After in seconds.
func (rl *RateLimiter) Middleware(key KeyFunc) gin.HandlerFunc {
	limit := strconv.Itoa(rl.requests)

	return func(c *gin.Context) {
		remaining, retryAfter := rl.take(key(c))

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if retryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			metrics.RecordRejection(metrics.RejectRateLimited)
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimit, i18n.ErrKeyRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stopCh:
			return
		}
	}
}

// sweep drops buckets idle for longer than a window. Such a bucket has
// refilled completely, so forgetting it changes nothing for its key.
func (rl *RateLimiter) sweep() int {
	cutoff := rl.now().Add(-rl.window)
	removed := 0
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		for key, b := range s.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(s.buckets, key)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len reports the number of tracked keys.
func (rl *RateLimiter) Len() int {
	n := 0
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		n += len(s.buckets)
		s.mu.Unlock()
	}
	return n
}

// Stop ends the sweeper. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}
