// Package repository provides the stock store and the audit log store.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/scaffold-service/internal/domain/model"
)

var (
	// ErrStockItemNotFound is returned when a stock item does not exist.
	ErrStockItemNotFound = errors.New("stock item not found")
	// ErrNegativeQuantity is returned when a change would leave a negative quantity.
	ErrNegativeQuantity = errors.New("stock quantity cannot become negative")
)

// WithdrawalQuery filters the withdrawal history.
type WithdrawalQuery struct {
	// TenantID restricts results to one tenant; empty means every tenant.
	TenantID string
	// Since drops withdrawals older than the given time when non-zero.
	Since time.Time
	// Limit caps the number of rows when positive.
	Limit int
}

// StockTx is the view of the stock store inside one transaction.
type StockTx interface {
	// GetByID reads the live item, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*model.StockItem, error)
	// Decrement removes qty units only if at least qty are available.
	// It reports false, without error, when stock is insufficient.
	Decrement(ctx context.Context, id string, qty int) (bool, error)
	// InsertWithdrawal appends an audit row.
	InsertWithdrawal(ctx context.Context, w *model.Withdrawal) error
}

// StockRepositoryInterface defines the stock store operations.
// An empty tenant ID means every tenant.
type StockRepositoryInterface interface {
	Create(ctx context.Context, item *model.StockItem) error
	GetByID(ctx context.Context, id string) (*model.StockItem, error)
	List(ctx context.Context, tenantID string) ([]model.StockItem, error)
	Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error)
	SetQuantity(ctx context.Context, id string, qty int) (*model.StockItem, error)
	AdjustQuantity(ctx context.Context, id string, delta int) (*model.StockItem, error)
	Delete(ctx context.Context, id string) error
	ListWithdrawals(ctx context.Context, q WithdrawalQuery) ([]model.Withdrawal, error)
	// WithTx runs fn atomically: every write made through tx is kept when fn
	// returns nil and discarded otherwise. fn must use the context it is given.
	// fn may be retried on transient conflicts, so it must not keep state
	// across calls.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error
	Ping(ctx context.Context) error
}

// LogsRepositoryInterface stores request and audit log entries.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *model.LogEntry) error
	CreateMany(ctx context.Context, entries []*model.LogEntry) error
	Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// IsBusinessError reports whether err is an expected domain outcome rather
// than a storage failure.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrStockItemNotFound) || errors.Is(err, ErrNegativeQuantity)
}
