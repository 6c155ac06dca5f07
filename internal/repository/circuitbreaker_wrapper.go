package repository

import (
	"context"
	"errors"

	"github.com/guttosm/scaffold-service/internal/circuitbreaker"
	"github.com/guttosm/scaffold-service/internal/domain/model"
)

// guard runs fn through cb and returns its value. On rejection the zero value
// comes back with ErrCircuitOpen.
func guard[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}

// StockRepositoryWithCircuitBreaker routes every stock call through a
// breaker. Configure the breaker with IsBusinessError so not-found and
// negative-stock outcomes do not count as store failures.
type StockRepositoryWithCircuitBreaker struct {
	repo StockRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

func NewStockRepositoryWithCircuitBreaker(repo StockRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *StockRepositoryWithCircuitBreaker {
	return &StockRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *StockRepositoryWithCircuitBreaker) Create(ctx context.Context, item *model.StockItem) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, item) })
}

func (r *StockRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	return guard(ctx, r.cb, func() (*model.StockItem, error) { return r.repo.GetByID(ctx, id) })
}

func (r *StockRepositoryWithCircuitBreaker) List(ctx context.Context, tenantID string) ([]model.StockItem, error) {
	return guard(ctx, r.cb, func() ([]model.StockItem, error) { return r.repo.List(ctx, tenantID) })
}

func (r *StockRepositoryWithCircuitBreaker) Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error) {
	return guard(ctx, r.cb, func() ([]model.StockItem, error) { return r.repo.Search(ctx, tenantID, filter) })
}

func (r *StockRepositoryWithCircuitBreaker) SetQuantity(ctx context.Context, id string, qty int) (*model.StockItem, error) {
	return guard(ctx, r.cb, func() (*model.StockItem, error) { return r.repo.SetQuantity(ctx, id, qty) })
}

func (r *StockRepositoryWithCircuitBreaker) AdjustQuantity(ctx context.Context, id string, delta int) (*model.StockItem, error) {
	return guard(ctx, r.cb, func() (*model.StockItem, error) { return r.repo.AdjustQuantity(ctx, id, delta) })
}

func (r *StockRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Delete(ctx, id) })
}

func (r *StockRepositoryWithCircuitBreaker) ListWithdrawals(ctx context.Context, q WithdrawalQuery) ([]model.Withdrawal, error) {
	return guard(ctx, r.cb, func() ([]model.Withdrawal, error) { return r.repo.ListWithdrawals(ctx, q) })
}

// WithTx counts the whole transaction as one call.
func (r *StockRepositoryWithCircuitBreaker) WithTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error {
	return r.cb.Execute(ctx, func() error { return r.repo.WithTx(ctx, fn) })
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (r *StockRepositoryWithCircuitBreaker) Ping(ctx context.Context) error {
	return r.repo.Ping(ctx)
}

// GetCircuitBreaker exposes the breaker to the readiness probe.
func (r *StockRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

// LogsRepositoryWithCircuitBreaker guards the logs store. Writes rejected by
// an open circuit are dropped without error, since request logs are best
// effort. Reads report the rejection.
type LogsRepositoryWithCircuitBreaker struct {
	repo LogsRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.LogEntry) error {
	return dropWhenOpen(r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, entry) }))
}

func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	return dropWhenOpen(r.cb.Execute(ctx, func() error { return r.repo.CreateMany(ctx, entries) }))
}

func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	return guard(ctx, r.cb, func() ([]model.LogEntry, error) { return r.repo.Query(ctx, opts) })
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return guard(ctx, r.cb, func() (int64, error) { return r.repo.Count(ctx, opts) })
}

func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

func dropWhenOpen(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}
