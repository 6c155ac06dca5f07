package scaffold

import (
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/scaffold-service/internal/domain/model"
)

// ErrInvalidDimensions is returned for non-positive, non-finite or oversized
// dimensions.
var ErrInvalidDimensions = errors.New("dimensions must be positive numbers")

const (
	// DefaultMaxDimension bounds height, length and width, in metres.
	DefaultMaxDimension = 200.0
	// MaxDimensionCeiling is the largest limit an engine accepts.
	MaxDimensionCeiling = 1000.0
)

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog replaces the default catalog. A zero catalog is ignored.
func WithCatalog(c Catalog) Option {
	return func(e *Engine) {
		if !c.IsZero() {
			e.catalog = c
		}
	}
}

// WithMaxDimension sets the largest accepted dimension. Values outside
// (0, MaxDimensionCeiling] are ignored.
func WithMaxDimension(limit float64) Option {
	return func(e *Engine) {
		if positive(limit) && limit <= MaxDimensionCeiling {
			e.maxDimension = limit
		}
	}
}

// Engine plans scaffolds and allocates stock against the plan.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog      Catalog
	maxDimension float64
}

// NewEngine creates an Engine with the default catalog and dimension limit
// unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{catalog: DefaultCatalog(), maxDimension: DefaultMaxDimension}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine plans with.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// MaxDimension returns the largest height, length or width Plan accepts.
func (e *Engine) MaxDimension() float64 {
	if e.maxDimension <= 0 {
		return DefaultMaxDimension
	}
	return e.maxDimension
}

// checkDimensions rejects dimensions that are not positive and finite or
// that exceed the engine limit.
func (e *Engine) checkDimensions(height, length, width float64) error {
	if !positive(height) || !positive(length) || !positive(width) {
		return ErrInvalidDimensions
	}
	if longest := math.Max(height, math.Max(length, width)); longest > e.MaxDimension() {
		return fmt.Errorf("%w: %s exceeds the %s m limit", ErrInvalidDimensions, formatLength(longest), formatLength(e.MaxDimension()))
	}
	return nil
}

// Result bundles the outputs of one allocation run.
type Result struct {
	Plan         GeometricPlan    `json:"plan"`
	Requirements RequirementMap   `json:"requirements"`
	Allocation   AllocationResult `json:"allocation"`
}

// Allocate plans the structure, derives its requirements and matches them
// against the stock snapshot.
func (e *Engine) Allocate(height, length, width float64, stock []model.StockItem) (Result, error) {
	plan, err := e.Plan(height, length, width)
	if err != nil {
		return Result{}, err
	}
	req := e.Requirements(plan)
	return Result{
		Plan:         plan,
		Requirements: req,
		Allocation:   e.Match(req, stock),
	}, nil
}
