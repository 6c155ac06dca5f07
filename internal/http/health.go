package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/circuitbreaker"
)

const (
	readinessTimeout = 2 * time.Second

	statusOK       = "ok"
	statusDegraded = "degraded"
)

// Pinger is implemented by the stock and logs stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// readinessReport is the body of /readyz. Checks maps a store to "ok" or its
// ping error, and a breaker (suffixed "_circuit") to its state.
type readinessReport struct {
	Status   string                  `json:"status"`
	Checks   map[string]string       `json:"checks"`
	Breakers []circuitbreaker.Stats `json:"breakers,omitempty"`
}

// HealthHandler serves the Kubernetes style probes.
type HealthHandler struct {
	stores   map[string]Pinger
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		stores:   map[string]Pinger{},
		breakers: map[string]*circuitbreaker.CircuitBreaker{},
	}
}

// WatchStore makes readiness depend on the store answering a ping.
func (h *HealthHandler) WatchStore(name string, store Pinger) {
	h.stores[name] = store
}

// WatchBreaker makes readiness depend on the breaker being closed.
func (h *HealthHandler) WatchBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.breakers[name] = cb
}

func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the process serves HTTP.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK when every watched store answers and no watched circuit breaker is open.
// @Tags        Health
// @Produce     json
// @Success     200 {object} readinessReport "Service is ready"
// @Failure     503 {object} readinessReport "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.check(c.Request.Context())
	code := http.StatusOK
	if report.Status != statusOK {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

// check pings the stores in parallel, each under its own deadline.
func (h *HealthHandler) check(ctx context.Context) readinessReport {
	report := readinessReport{Status: statusOK, Checks: map[string]string{}}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, store := range h.stores {
		wg.Add(1)
		go func(name string, store Pinger) {
			defer wg.Done()
			pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
			defer cancel()

			result := statusOK
			if err := store.Ping(pingCtx); err != nil {
				result = err.Error()
			}
			mu.Lock()
			report.Checks[name] = result
			if result != statusOK {
				report.Status = statusDegraded
			}
			mu.Unlock()
		}(name, store)
	}
	wg.Wait()

	for name, cb := range h.breakers {
		stats := cb.GetStats()
		report.Checks[name+"_circuit"] = stats.State
		report.Breakers = append(report.Breakers, stats)
		if !stats.IsHealthy {
			report.Status = statusDegraded
		}
	}

	if len(report.Checks) == 0 {
		report.Checks["service"] = statusOK
	}
	return report
}
