package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/scaffold-service/internal/domain/model"
)

// MemoryStockRepository keeps stock in process memory. It is used when no
// database is configured and by the CLI.
type MemoryStockRepository struct {
	mu          sync.RWMutex
	items       map[string]model.StockItem
	withdrawals []model.Withdrawal
}

// NewMemoryStockRepository creates an empty in-memory stock store.
func NewMemoryStockRepository() *MemoryStockRepository {
	return &MemoryStockRepository{
		items: make(map[string]model.StockItem),
	}
}

// Create stores a new item, assigning an ID and timestamps when missing.
func (r *MemoryStockRepository) Create(_ context.Context, item *model.StockItem) error {
	if item.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = cloneItem(*item)
	return nil
}

// GetByID returns the item or nil when it does not exist.
func (r *MemoryStockRepository) GetByID(_ context.Context, id string) (*model.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	out := cloneItem(item)
	return &out, nil
}

// List returns the tenant's items ordered by name.
func (r *MemoryStockRepository) List(_ context.Context, tenantID string) ([]model.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.StockItem, 0, len(r.items))
	for _, item := range r.items {
		if tenantID == "" || item.TenantID == tenantID {
			items = append(items, cloneItem(item))
		}
	}
	sortItems(items)
	return items, nil
}

// Search filters the tenant's items.
func (r *MemoryStockRepository) Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error) {
	all, err := r.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	f := normalizeFilter(filter)
	matched := make([]model.StockItem, 0, len(all))
	for _, item := range all {
		if matchesFilter(item, tenantID, f) {
			matched = append(matched, item)
		}
	}
	return paginate(matched, f.Skip, f.Limit), nil
}

// SetQuantity overwrites the quantity of an item.
func (r *MemoryStockRepository) SetQuantity(_ context.Context, id string, qty int) (*model.StockItem, error) {
	if qty < 0 {
		return nil, ErrNegativeQuantity
	}
	return r.update(id, func(item *model.StockItem) error {
		item.Quantity = qty
		return nil
	})
}

// AdjustQuantity adds delta to the quantity of an item.
func (r *MemoryStockRepository) AdjustQuantity(_ context.Context, id string, delta int) (*model.StockItem, error) {
	return r.update(id, func(item *model.StockItem) error {
		if item.Quantity+delta < 0 {
			return ErrNegativeQuantity
		}
		item.Quantity += delta
		return nil
	})
}

func (r *MemoryStockRepository) update(id string, fn func(*model.StockItem) error) (*model.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrStockItemNotFound
	}
	if err := fn(&item); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[id] = item

	out := cloneItem(item)
	return &out, nil
}

// Delete removes an item.
func (r *MemoryStockRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrStockItemNotFound
	}
	delete(r.items, id)
	return nil
}

// ListWithdrawals returns withdrawals, newest first.
func (r *MemoryStockRepository) ListWithdrawals(_ context.Context, q WithdrawalQuery) ([]model.Withdrawal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Withdrawal, 0, len(r.withdrawals))
	for _, w := range r.withdrawals {
		if q.TenantID != "" && w.TenantID != q.TenantID {
			continue
		}
		if !q.Since.IsZero() && w.CreatedAt.Before(q.Since) {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// WithTx runs fn against a staged copy of the store under the write lock and
// publishes the copy only when fn succeeds.
func (r *MemoryStockRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := &memoryStockTx{items: make(map[string]model.StockItem, len(r.items))}
	for id, item := range r.items {
		staged.items[id] = item
	}

	if err := fn(ctx, staged); err != nil {
		return err
	}

	r.items = staged.items
	r.withdrawals = append(r.withdrawals, staged.withdrawals...)
	return nil
}

// Ping always succeeds.
func (r *MemoryStockRepository) Ping(context.Context) error {
	return nil
}

type memoryStockTx struct {
	items       map[string]model.StockItem
	withdrawals []model.Withdrawal
}

func (t *memoryStockTx) GetByID(_ context.Context, id string) (*model.StockItem, error) {
	item, ok := t.items[id]
	if !ok {
		return nil, nil
	}
	out := cloneItem(item)
	return &out, nil
}

func (t *memoryStockTx) Decrement(_ context.Context, id string, qty int) (bool, error) {
	item, ok := t.items[id]
	if !ok || item.Quantity < qty {
		return false, nil
	}
	item.Quantity -= qty
	item.UpdatedAt = time.Now().UTC()
	t.items[id] = item
	return true, nil
}

func (t *memoryStockTx) InsertWithdrawal(_ context.Context, w *model.Withdrawal) error {
	prepareWithdrawal(w)
	t.withdrawals = append(t.withdrawals, *w)
	return nil
}

// prepareWithdrawal assigns the ID and timestamp of a new audit row.
func prepareWithdrawal(w *model.Withdrawal) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
}
