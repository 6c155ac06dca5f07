package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	// DefaultLowStockThreshold is the quantity at or below which an item is low.
	DefaultLowStockThreshold = 10
	// DefaultRecentDays is the window of RecentWithdrawals.
	DefaultRecentDays = 7
	// DefaultRecentLimit caps RecentWithdrawals.
	DefaultRecentLimit = 50
	// DefaultAdjustReason is recorded when an adjustment has no reason.
	DefaultAdjustReason = "manual adjustment"
	// DefaultWithdrawReason is recorded when a withdrawal has no reason.
	DefaultWithdrawReason = "manual withdrawal"
)

// WithdrawResult is the outcome of a single withdrawal.
type WithdrawResult struct {
	Withdrawal model.Withdrawal `json:"withdrawal"`
	Remaining  int              `json:"remaining"`
}

// AdjustResult is the outcome of an adjustment.
type AdjustResult struct {
	Item        model.StockItem `json:"item"`
	OldQuantity int             `json:"old_quantity"`
	NewQuantity int             `json:"new_quantity"`
	Delta       int             `json:"delta"`
	Reason      string          `json:"reason"`
}

// StockManager manages a tenant's inventory. An empty tenant ID is the
// unscoped view reserved to superadmins.
type StockManager interface {
	Create(ctx context.Context, item model.StockItem) (model.StockItem, bool, error)
	Get(ctx context.Context, tenantID, id string) (model.StockItem, error)
	List(ctx context.Context, tenantID string) ([]model.StockItem, error)
	Delete(ctx context.Context, tenantID, id string) error
	SetQuantity(ctx context.Context, tenantID, id string, qty int) (model.StockItem, error)
	Withdraw(ctx context.Context, tenantID, userID, id string, qty int, reason string) (WithdrawResult, error)
	Adjust(ctx context.Context, tenantID, id string, delta int, reason string) (AdjustResult, error)
	Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error)
	LowStock(ctx context.Context, tenantID string, threshold int) ([]model.StockItem, error)
	CategoryStats(ctx context.Context, tenantID string) ([]model.CategoryStats, error)
	Stats(ctx context.Context, tenantID string) (model.StockStats, error)
	Withdrawals(ctx context.Context, tenantID string) ([]model.Withdrawal, error)
	RecentWithdrawals(ctx context.Context, tenantID string, days, limit int) ([]model.Withdrawal, error)
	WithdrawalStatsByUser(ctx context.Context, tenantID string) ([]model.UserWithdrawalStats, error)
}

// StockOption configures a StockService.
type StockOption func(*StockService)

// WithLowStockThreshold sets the default low-stock threshold.
func WithLowStockThreshold(n int) StockOption {
	return func(s *StockService) {
		if n >= 0 {
			s.lowStock = n
		}
	}
}

// WithRecentWindow sets the defaults of RecentWithdrawals.
func WithRecentWindow(days, limit int) StockOption {
	return func(s *StockService) {
		if days > 0 {
			s.recentDays = days
		}
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

// StockService implements StockManager.
type StockService struct {
	repo        repository.StockRepositoryInterface
	lowStock    int
	recentDays  int
	recentLimit int
	clock       func() time.Time

	// createMu serializes the identity lookup and merge of Create within
	// this process.
	createMu sync.Mutex
}

// NewStockService creates a stock service.
func NewStockService(repo repository.StockRepositoryInterface, opts ...StockOption) *StockService {
	s := &StockService{
		repo:        repo,
		lowStock:    DefaultLowStockThreshold,
		recentDays:  DefaultRecentDays,
		recentLimit: DefaultRecentLimit,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores an item. When an item with the same identity already exists
// its quantity is increased instead, and the merged item is returned with
// created=false.
func (s *StockService) Create(ctx context.Context, item model.StockItem) (model.StockItem, bool, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := validateItem(item); err != nil {
		return model.StockItem{}, false, err
	}
	item.Category = string(scaffold.ResolveCategory(item.Category, item.Name))

	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.repo.List(ctx, item.TenantID)
	if err != nil {
		return model.StockItem{}, false, err
	}
	for _, other := range existing {
		if !item.SameIdentity(other) {
			continue
		}
		merged, err := s.repo.AdjustQuantity(ctx, other.ID, item.Quantity)
		if err != nil {
			return model.StockItem{}, false, mapRepoError(err)
		}
		log.Info().
			Str("stock_item_id", merged.ID).
			Str("tenant_id", merged.TenantID).
			Int("added", item.Quantity).
			Msg("Stock item merged into existing article")
		return *merged, false, nil
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		return model.StockItem{}, false, mapRepoError(err)
	}
	return item, true, nil
}

func validateItem(item model.StockItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStockItem)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidStockItem)
	}
	dims := []struct {
		name string
		v    *float64
	}{
		{"length", item.Length}, {"width", item.Width}, {"height", item.Height}, {"weight", item.Weight},
	}
	for _, d := range dims {
		if d.v == nil {
			continue
		}
		if math.IsNaN(*d.v) || math.IsInf(*d.v, 0) || *d.v < 0 || (*d.v == 0 && d.name != "weight") {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidStockItem, d.name)
		}
	}
	return nil
}

// Get returns one item of the tenant.
func (s *StockService) Get(ctx context.Context, tenantID, id string) (model.StockItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.StockItem{}, err
	}
	if item == nil || !ownedBy(item, tenantID) {
		return model.StockItem{}, ErrStockItemNotFound
	}
	return *item, nil
}

// List returns the tenant's items ordered by name.
func (s *StockService) List(ctx context.Context, tenantID string) ([]model.StockItem, error) {
	return s.repo.List(ctx, tenantID)
}

// Delete removes one item of the tenant.
func (s *StockService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	return mapRepoError(s.repo.Delete(ctx, id))
}

// SetQuantity overwrites the quantity of one item.
func (s *StockService) SetQuantity(ctx context.Context, tenantID, id string, qty int) (model.StockItem, error) {
	if qty < 0 {
		return model.StockItem{}, ErrNegativeStock
	}
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return model.StockItem{}, err
	}
	item, err := s.repo.SetQuantity(ctx, id, qty)
	if err != nil {
		return model.StockItem{}, mapRepoError(err)
	}
	return *item, nil
}

// Withdraw takes qty units out of one item and records the withdrawal.
func (s *StockService) Withdraw(ctx context.Context, tenantID, userID, id string, qty int, reason string) (WithdrawResult, error) {
	if qty <= 0 {
		return WithdrawResult{}, ErrInvalidQuantity
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultWithdrawReason
	}

	var result WithdrawResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.StockTx) error {
		item, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil || !ownedBy(item, tenantID) {
			return ErrStockItemNotFound
		}
		if item.Quantity < qty {
			return fmt.Errorf("%w: %d available, %d requested", ErrInsufficientStock, item.Quantity, qty)
		}
		ok, err := tx.Decrement(ctx, id, qty)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}

		w := model.Withdrawal{
			StockItemID:   item.ID,
			StockItemName: item.Name,
			TenantID:      item.TenantID,
			UserID:        userID,
			Quantity:      qty,
			TotalWeight:   scaffold.LineWeight(qty, item.Weight).Round(3).InexactFloat64(),
			Reason:        reason,
		}
		if err := tx.InsertWithdrawal(ctx, &w); err != nil {
			return err
		}
		result = WithdrawResult{Withdrawal: w, Remaining: item.Quantity - qty}
		return nil
	})
	if err != nil {
		return WithdrawResult{}, err
	}

	metrics.RecordWithdrawal("manual", qty)
	return result, nil
}

// Adjust applies a signed delta to one item.
func (s *StockService) Adjust(ctx context.Context, tenantID, id string, delta int, reason string) (AdjustResult, error) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultAdjustReason
	}
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return AdjustResult{}, err
	}

	item, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return AdjustResult{}, mapRepoError(err)
	}

	log.Info().
		Str("stock_item_id", id).
		Str("tenant_id", item.TenantID).
		Int("delta", delta).
		Str("reason", reason).
		Msg("Stock adjusted")

	return AdjustResult{
		Item:        *item,
		OldQuantity: item.Quantity - delta,
		NewQuantity: item.Quantity,
		Delta:       delta,
		Reason:      reason,
	}, nil
}

// Search filters the tenant's items.
func (s *StockService) Search(ctx context.Context, tenantID string, filter model.StockFilter) ([]model.StockItem, error) {
	return s.repo.Search(ctx, tenantID, filter)
}

// LowStock returns items whose quantity is at or below threshold. A negative
// threshold selects the configured default.
func (s *StockService) LowStock(ctx context.Context, tenantID string, threshold int) ([]model.StockItem, error) {
	if threshold < 0 {
		threshold = s.lowStock
	}
	return s.repo.Search(ctx, tenantID, model.StockFilter{MaxStock: &threshold, Limit: math.MaxInt32})
}

// CategoryStats aggregates the tenant's items per category.
func (s *StockService) CategoryStats(ctx context.Context, tenantID string) ([]model.CategoryStats, error) {
	items, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return categoryStats(items), nil
}

func categoryStats(items []model.StockItem) []model.CategoryStats {
	type acc struct {
		stats  model.CategoryStats
		weight decimal.Decimal
	}
	byCategory := map[string]*acc{}
	for _, item := range items {
		c := string(scaffold.ResolveCategory(item.Category, item.Name))
		a, ok := byCategory[c]
		if !ok {
			a = &acc{stats: model.CategoryStats{Category: c}, weight: decimal.Zero}
			byCategory[c] = a
		}
		a.stats.ItemCount++
		a.stats.TotalQuantity += item.Quantity
		a.weight = a.weight.Add(scaffold.LineWeight(item.Quantity, item.Weight))
	}

	out := make([]model.CategoryStats, 0, len(byCategory))
	for _, a := range byCategory {
		a.stats.TotalWeight = a.weight.Round(3).InexactFloat64()
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Stats summarizes the tenant's inventory.
func (s *StockService) Stats(ctx context.Context, tenantID string) (model.StockStats, error) {
	items, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return model.StockStats{}, err
	}

	stats := model.StockStats{
		TotalItems:      len(items),
		LowStockTrigger: s.lowStock,
	}
	categories := map[string]struct{}{}
	for _, item := range items {
		stats.TotalQuantity += item.Quantity
		if item.Quantity <= s.lowStock {
			stats.LowStockAlerts++
		}
		categories[string(scaffold.ResolveCategory(item.Category, item.Name))] = struct{}{}
	}
	stats.CategoryCount = len(categories)
	return stats, nil
}

// Withdrawals returns the tenant's full withdrawal history, newest first.
func (s *StockService) Withdrawals(ctx context.Context, tenantID string) ([]model.Withdrawal, error) {
	return s.repo.ListWithdrawals(ctx, repository.WithdrawalQuery{TenantID: tenantID})
}

// RecentWithdrawals returns withdrawals of the last days, newest first.
// Non-positive arguments select the configured defaults.
func (s *StockService) RecentWithdrawals(ctx context.Context, tenantID string, days, limit int) ([]model.Withdrawal, error) {
	if days <= 0 {
		days = s.recentDays
	}
	if limit <= 0 {
		limit = s.recentLimit
	}
	return s.repo.ListWithdrawals(ctx, repository.WithdrawalQuery{
		TenantID: tenantID,
		Since:    s.clock().AddDate(0, 0, -days),
		Limit:    limit,
	})
}

// WithdrawalStatsByUser aggregates the tenant's withdrawals per user, busiest first.
func (s *StockService) WithdrawalStatsByUser(ctx context.Context, tenantID string) ([]model.UserWithdrawalStats, error) {
	history, err := s.Withdrawals(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	type acc struct {
		stats  model.UserWithdrawalStats
		weight decimal.Decimal
	}
	byUser := map[string]*acc{}
	for _, w := range history {
		a, ok := byUser[w.UserID]
		if !ok {
			a = &acc{stats: model.UserWithdrawalStats{UserID: w.UserID}, weight: decimal.Zero}
			byUser[w.UserID] = a
		}
		a.stats.WithdrawalCount++
		a.stats.TotalQuantity += w.Quantity
		a.weight = a.weight.Add(decimal.NewFromFloat(w.TotalWeight))
	}

	out := make([]model.UserWithdrawalStats, 0, len(byUser))
	for _, a := range byUser {
		a.stats.TotalWeight = a.weight.Round(3).InexactFloat64()
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// mapRepoError translates repository sentinels into service errors.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStockItemNotFound):
		return ErrStockItemNotFound
	case errors.Is(err, repository.ErrNegativeQuantity):
		return ErrNegativeStock
	default:
		return err
	}
}
