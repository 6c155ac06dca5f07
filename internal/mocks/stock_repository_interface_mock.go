// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockStockRepositoryInterface is a testify mock of repository.StockRepositoryInterface.
// WithTx runs fn against Tx when Tx is set, after recording the call.
type MockStockRepositoryInterface struct {
	mock.Mock
	Tx repository.StockTx
}

func (m *MockStockRepositoryInterface) Create(ctx context.Context, item *model.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockRepositoryInterface) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockItem), args.Error(1)
}

func (m *MockStockRepositoryInterface) List(ctx context.Context, tenantID string) ([]model.StockItem, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StockItem), args.Error(1)
}

func (m *MockStockRepositoryInterface) Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StockItem), args.Error(1)
}

func (m *MockStockRepositoryInterface) SetQuantity(ctx context.Context, id string, qty int) (*model.StockItem, error) {
	args := m.Called(ctx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockItem), args.Error(1)
}

func (m *MockStockRepositoryInterface) AdjustQuantity(ctx context.Context, id string, delta int) (*model.StockItem, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockItem), args.Error(1)
}

func (m *MockStockRepositoryInterface) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockRepositoryInterface) ListWithdrawals(ctx context.Context, q repository.WithdrawalQuery) ([]model.Withdrawal, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Withdrawal), args.Error(1)
}

func (m *MockStockRepositoryInterface) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.StockTx) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	if m.Tx == nil {
		return nil
	}
	return fn(ctx, m.Tx)
}

func (m *MockStockRepositoryInterface) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStockTx is a testify mock of repository.StockTx.
type MockStockTx struct {
	mock.Mock
}

func (m *MockStockTx) GetByID(ctx context.Context, id string) (*model.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockItem), args.Error(1)
}

func (m *MockStockTx) Decrement(ctx context.Context, id string, qty int) (bool, error) {
	args := m.Called(ctx, id, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockTx) InsertWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
