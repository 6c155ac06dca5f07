package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/guttosm/scaffold-service/internal/service/cache"
	"github.com/rs/zerolog/log"
)

// ErrStockUnavailable wraps failures to read the stock snapshot.
var ErrStockUnavailable = errors.New("stock unavailable")

// Dimensions are the requested scaffold sizes in metres.
type Dimensions struct {
	Height float64
	Length float64
	Width  float64
}

// CalculateRequest asks for a plan matched against a tenant's stock.
type CalculateRequest struct {
	Dimensions
	// TenantID scopes the stock snapshot; empty means every tenant.
	TenantID string
	// UserID is recorded on withdrawals when ApplyToStock is set.
	UserID       string
	ApplyToStock bool
}

// Calculation is the result of a CalculateRequest.
type Calculation struct {
	scaffold.Result
	// Committed reports whether the allocation was withdrawn from stock.
	Committed bool
}

// ScaffoldCalculator runs the allocation engine.
type ScaffoldCalculator interface {
	// Plan returns the geometric plan and requirements, without stock.
	Plan(ctx context.Context, dims Dimensions) (scaffold.Result, error)
	// Calculate plans and allocates stock, optionally committing the allocation.
	Calculate(ctx context.Context, req CalculateRequest) (Calculation, error)
}

// planCacheName labels the plan cache in metrics.
const planCacheName = "plan"

// ScaffoldOption configures a ScaffoldService.
type ScaffoldOption func(*ScaffoldService)

// ScaffoldService implements ScaffoldCalculator.
type ScaffoldService struct {
	engine    *scaffold.Engine
	stock     repository.StockRepositoryInterface
	committer StockCommitter
	cache     cache.Cache[scaffold.Result]
}

// NewScaffoldService creates the service. The committer defaults to one
// built on the stock repository.
func NewScaffoldService(engine *scaffold.Engine, stock repository.StockRepositoryInterface, opts ...ScaffoldOption) *ScaffoldService {
	s := &ScaffoldService{
		engine: engine,
		stock:  stock,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.committer == nil {
		s.committer = NewStockCommitter(stock)
	}
	return s
}

// WithCommitter replaces the stock committer.
func WithCommitter(c StockCommitter) ScaffoldOption {
	return func(s *ScaffoldService) {
		s.committer = c
	}
}

// WithPlanCache caches plans with the given capacity and TTL.
func WithPlanCache(capacity int, ttl time.Duration) ScaffoldOption {
	return func(s *ScaffoldService) {
		if capacity > 0 {
			s.cache = cache.NewSharded[scaffold.Result](planCacheName, capacity, ttl, 0)
		}
	}
}

// WithCacheInterface injects a cache implementation.
func WithCacheInterface(c cache.Cache[scaffold.Result]) ScaffoldOption {
	return func(s *ScaffoldService) {
		s.cache = c
	}
}

// Plan returns the plan and requirements for the dimensions.
func (s *ScaffoldService) Plan(_ context.Context, dims Dimensions) (scaffold.Result, error) {
	start := time.Now()
	key := s.planKey(dims)

	if s.cache != nil {
		if result, ok := s.cache.Get(key); ok {
			return result, nil
		}
	}

	plan, err := s.engine.Plan(dims.Height, dims.Length, dims.Width)
	if err != nil {
		metrics.RecordScaffoldCalculation("plan", time.Since(start), "error")
		return scaffold.Result{}, err
	}
	result := scaffold.Result{
		Plan:         plan,
		Requirements: s.engine.Requirements(plan),
	}
	metrics.RecordScaffoldCalculation("plan", time.Since(start), "success")

	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

// Calculate plans, allocates against the live stock and, when asked,
// withdraws the allocation. Lines that fail at commit are appended to the
// shortfalls.
func (s *ScaffoldService) Calculate(ctx context.Context, req CalculateRequest) (Calculation, error) {
	start := time.Now()

	stock, err := s.stock.List(ctx, req.TenantID)
	if err != nil {
		metrics.RecordScaffoldCalculation("allocate", time.Since(start), "error")
		return Calculation{}, fmt.Errorf("%w: %w", ErrStockUnavailable, err)
	}

	result, err := s.engine.Allocate(req.Height, req.Length, req.Width, stock)
	if err != nil {
		metrics.RecordScaffoldCalculation("allocate", time.Since(start), "error")
		return Calculation{}, err
	}
	metrics.RecordScaffoldCalculation("allocate", time.Since(start), "success")
	metrics.RecordShortfalls(len(result.Allocation.Shortfalls))

	log.Debug().
		Float64("height", req.Height).
		Float64("length", req.Length).
		Float64("width", req.Width).
		Int("levels", result.Plan.Levels).
		Floats64("bays", result.Plan.Bays).
		Int("stock_items", len(stock)).
		Int("shortfalls", len(result.Allocation.Shortfalls)).
		Msg("Scaffold allocated")

	calc := Calculation{Result: result}
	if !req.ApplyToStock || len(result.Allocation.Lines) == 0 {
		return calc, nil
	}

	failures, err := s.committer.Commit(ctx, result.Allocation.Lines, req.TenantID, req.UserID)
	if err != nil {
		return Calculation{}, err
	}
	calc.Allocation.Shortfalls = append(calc.Allocation.Shortfalls, failures...)
	calc.Committed = true
	return calc, nil
}

// InvalidateCache drops every cached plan.
func (s *ScaffoldService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Stop releases the cache goroutines.
func (s *ScaffoldService) Stop() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

func (s *ScaffoldService) planKey(d Dimensions) string {
	return strconv.FormatFloat(d.Height, 'f', -1, 64) + "|" +
		strconv.FormatFloat(d.Length, 'f', -1, 64) + "|" +
		strconv.FormatFloat(d.Width, 'f', -1, 64) + "|" +
		s.engine.Catalog().Key()
}
