//go:build !integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/scaffold-service/internal/circuitbreaker"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// failingStockRepository fails every call with err.
type failingStockRepository struct {
	*MemoryStockRepository
	err error
}

func (r *failingStockRepository) List(context.Context, string) ([]model.StockItem, error) {
	return nil, r.err
}

func (r *failingStockRepository) Ping(context.Context) error {
	return r.err
}

type failingLogsRepository struct {
	err error
}

func (r *failingLogsRepository) Create(context.Context, *model.LogEntry) error { return r.err }
func (r *failingLogsRepository) CreateMany(context.Context, []*model.LogEntry) error {
	return r.err
}
func (r *failingLogsRepository) Query(context.Context, model.LogQueryOptions) ([]model.LogEntry, error) {
	return nil, r.err
}
func (r *failingLogsRepository) Count(context.Context, model.LogQueryOptions) (int64, error) {
	return 0, r.err
}

func newTestBreaker(name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:             name,
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		IsFailure:        func(err error) bool { return !IsBusinessError(err) },
	})
}

func TestStockRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("passes calls through", func(t *testing.T) {
		wrapped := NewStockRepositoryWithCircuitBreaker(NewMemoryStockRepository(), newTestBreaker("stock"))

		item := model.StockItem{Name: "Socle", Quantity: 4}
		require.NoError(t, wrapped.Create(ctx, &item))

		got, err := wrapped.AdjustQuantity(ctx, item.ID, -1)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Quantity)

		items, err := wrapped.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, "stock", wrapped.GetCircuitBreaker().Name())
	})

	t.Run("business errors do not open the circuit", func(t *testing.T) {
		wrapped := NewStockRepositoryWithCircuitBreaker(NewMemoryStockRepository(), newTestBreaker("stock"))

		for i := 0; i < 5; i++ {
			_, err := wrapped.AdjustQuantity(ctx, "missing", -1)
			assert.ErrorIs(t, err, ErrStockItemNotFound)
		}
		assert.Equal(t, circuitbreaker.StateClosed, wrapped.GetCircuitBreaker().State())
	})

	t.Run("storage failures open the circuit", func(t *testing.T) {
		down := errors.New("connection refused")
		wrapped := NewStockRepositoryWithCircuitBreaker(
			&failingStockRepository{MemoryStockRepository: NewMemoryStockRepository(), err: down},
			newTestBreaker("stock"),
		)

		for i := 0; i < 2; i++ {
			_, err := wrapped.List(ctx, "t1")
			assert.ErrorIs(t, err, down)
		}
		_, err := wrapped.List(ctx, "t1")
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

		// readiness still reaches the backend
		assert.ErrorIs(t, wrapped.Ping(ctx), down)
	})
}

func TestLogsRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")
	wrapped := NewLogsRepositoryWithCircuitBreaker(&failingLogsRepository{err: down}, newTestBreaker("logs"))

	assert.ErrorIs(t, wrapped.Create(ctx, &model.LogEntry{}), down)
	assert.ErrorIs(t, wrapped.CreateMany(ctx, []*model.LogEntry{{}}), down)

	// open circuit drops writes silently
	assert.NoError(t, wrapped.Create(ctx, &model.LogEntry{}))
	assert.NoError(t, wrapped.CreateMany(ctx, []*model.LogEntry{{}}))

	_, err := wrapped.Query(ctx, model.LogQueryOptions{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	_, err = wrapped.Count(ctx, model.LogQueryOptions{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}

func TestLogFilter(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := logFilter(model.LogQueryOptions{
		TenantID:   "t1",
		ActionType: "stock_withdraw",
		Path:       "/api/stock/:id",
		StartTime:  &start,
	})

	m := make(map[string]interface{}, len(f))
	for _, e := range f {
		m[e.Key] = e.Value
	}
	assert.Equal(t, "t1", m["tenant_id"])
	assert.Equal(t, "stock_withdraw", m["action_type"])
	assert.NotContains(t, m, "user_id")
	assert.Equal(t, primitive.Regex{Pattern: `/api/stock/:id`, Options: "i"}, m["path"])
	assert.Equal(t, bson.D{{Key: "$gte", Value: start}}, m["timestamp"])

	assert.Empty(t, logFilter(model.LogQueryOptions{}))
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		limit, want int
	}{
		{0, DefaultLogQueryLimit},
		{-5, DefaultLogQueryLimit},
		{25, 25},
		{MaxLogQueryLimit + 1, MaxLogQueryLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageSize(tt.limit))
	}
}
