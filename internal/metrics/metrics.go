// Package metrics exposes the Prometheus collectors of the scaffold service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// ScaffoldCalculationsTotal counts engine runs by kind (plan, allocate) and status.
	ScaffoldCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scaffold_calculations_total",
			Help: "Total number of scaffold calculations",
		},
		[]string{"kind", "status"},
	)

	// ScaffoldCalculationDuration tracks engine run duration.
	ScaffoldCalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scaffold_calculation_duration_seconds",
			Help:    "Scaffold calculation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"kind"},
	)

	// ScaffoldShortfallsTotal counts shortfall lines reported by allocations.
	ScaffoldShortfallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scaffold_shortfalls_total",
			Help: "Total number of shortfall lines reported by allocations",
		},
	)

	// StockWithdrawalsTotal counts withdrawal rows by source (allocation, manual).
	StockWithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_withdrawals_total",
			Help: "Total number of stock withdrawals",
		},
		[]string{"source"},
	)

	// StockUnitsWithdrawnTotal counts units taken out of stock.
	StockUnitsWithdrawnTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_units_withdrawn_total",
			Help: "Total number of stock units withdrawn",
		},
		[]string{"source"},
	)

	// StockCommitErrorsTotal counts per-line commit failures by reason.
	StockCommitErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_commit_errors_total",
			Help: "Total number of allocation lines that could not be committed",
		},
		[]string{"reason"},
	)

	// CacheOperationsTotal tracks cache operations by cache name (plan, idempotency).
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "operation", "result"},
	)

	// CacheSize tracks the number of live entries per cache.
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
		[]string{"cache"},
	)

	// CacheCapacity tracks the entry limit per cache.
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
		[]string{"cache"},
	)

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// HTTPRejectionsTotal counts requests the middleware chain answered
	// itself, by reason (timeout, panic, rate_limited, idempotent_replay).
	HTTPRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_middleware_rejections_total",
			Help: "Requests answered by middleware instead of a handler",
		},
		[]string{"reason"},
	)

	// AuditEntriesTotal counts persisted log entries by outcome.
	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_log_entries_total",
			Help: "Log entries handed to the audit writer, by outcome",
		},
		[]string{"outcome"},
	)
)

// Audit writer outcomes.
const (
	AuditWritten = "written"
	AuditDropped = "dropped"
	AuditFailed  = "failed"
)

// Middleware rejection reasons.
const (
	RejectTimeout     = "timeout"
	RejectPanic       = "panic"
	RejectRateLimited = "rate_limited"
	RejectReplay      = "idempotent_replay"
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			// unmatched routes would otherwise explode label cardinality
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordScaffoldCalculation records one engine run.
func RecordScaffoldCalculation(kind string, duration time.Duration, status string) {
	ScaffoldCalculationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	ScaffoldCalculationsTotal.WithLabelValues(kind, status).Inc()
}

// RecordShortfalls adds n shortfall lines.
func RecordShortfalls(n int) {
	if n > 0 {
		ScaffoldShortfallsTotal.Add(float64(n))
	}
}

// RecordWithdrawal records one withdrawal row of qty units.
func RecordWithdrawal(source string, qty int) {
	StockWithdrawalsTotal.WithLabelValues(source).Inc()
	StockUnitsWithdrawnTotal.WithLabelValues(source).Add(float64(qty))
}

// RecordCommitError records an allocation line that was skipped at commit.
func RecordCommitError(reason string) {
	StockCommitErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordCacheOperation records one operation on the named cache.
func RecordCacheOperation(cache, operation, result string) {
	CacheOperationsTotal.WithLabelValues(cache, operation, result).Inc()
}

// UpdateCacheMetrics publishes the size and capacity of the named cache.
func UpdateCacheMetrics(cache string, size, capacity int) {
	CacheSize.WithLabelValues(cache).Set(float64(size))
	CacheCapacity.WithLabelValues(cache).Set(float64(capacity))
}

// RecordRejection counts a request answered by middleware.
func RecordRejection(reason string) {
	HTTPRejectionsTotal.WithLabelValues(reason).Inc()
}

// SetCircuitBreakerState publishes the state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAuditEntries counts n log entries with the given outcome.
func RecordAuditEntries(outcome string, n int) {
	if n > 0 {
		AuditEntriesTotal.WithLabelValues(outcome).Add(float64(n))
	}
}
