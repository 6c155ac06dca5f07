package service

import (
	"context"
	"fmt"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/rs/zerolog/log"
)

// AllocationReason is recorded on withdrawals created by an allocation.
const AllocationReason = "scaffold allocation"

// StockCommitter applies allocation lines to the stock store.
type StockCommitter interface {
	// Commit withdraws every line in one transaction. Lines that cannot be
	// honored are skipped and described in the returned messages. A storage
	// error rolls back every line.
	Commit(ctx context.Context, lines []scaffold.AllocationLine, tenantID, actor string) ([]string, error)
}

// StockCommitterImpl implements StockCommitter on a stock repository.
type StockCommitterImpl struct {
	repo repository.StockRepositoryInterface
}

// NewStockCommitter creates a committer.
func NewStockCommitter(repo repository.StockRepositoryInterface) *StockCommitterImpl {
	return &StockCommitterImpl{repo: repo}
}

// lineOutcome is what one attempt of the transaction did.
type lineOutcome struct {
	failures  []string
	reasons   []string
	withdrawn []model.Withdrawal
}

// Commit withdraws the allocation lines.
func (c *StockCommitterImpl) Commit(ctx context.Context, lines []scaffold.AllocationLine, tenantID, actor string) ([]string, error) {
	var outcome lineOutcome

	err := c.repo.WithTx(ctx, func(ctx context.Context, tx repository.StockTx) error {
		// the transaction may be retried; start every attempt clean
		outcome = lineOutcome{}
		for _, line := range lines {
			if line.Quantity <= 0 {
				continue
			}
			if err := commitLine(ctx, tx, line, tenantID, actor, &outcome); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit allocation: %w", err)
	}

	for _, w := range outcome.withdrawn {
		metrics.RecordWithdrawal("allocation", w.Quantity)
	}
	for _, reason := range outcome.reasons {
		metrics.RecordCommitError(reason)
	}
	log.Info().
		Str("tenant_id", tenantID).
		Str("user_id", actor).
		Int("withdrawn_lines", len(outcome.withdrawn)).
		Int("failed_lines", len(outcome.failures)).
		Msg("Allocation committed to stock")

	if outcome.failures == nil {
		return []string{}, nil
	}
	return outcome.failures, nil
}

func commitLine(ctx context.Context, tx repository.StockTx, line scaffold.AllocationLine, tenantID, actor string, out *lineOutcome) error {
	item, err := tx.GetByID(ctx, line.StockItemID)
	if err != nil {
		return err
	}
	if item == nil || !ownedBy(item, tenantID) {
		out.failures = append(out.failures, fmt.Sprintf("stock item %s not found", line.StockItemID))
		out.reasons = append(out.reasons, "not_found")
		return nil
	}

	insufficient := func(have int) {
		out.failures = append(out.failures,
			fmt.Sprintf("stock item %s: insufficient stock (%d < %d)", item.Name, have, line.Quantity))
		out.reasons = append(out.reasons, "insufficient")
	}
	if item.Quantity < line.Quantity {
		insufficient(item.Quantity)
		return nil
	}

	ok, err := tx.Decrement(ctx, item.ID, line.Quantity)
	if err != nil {
		return err
	}
	if !ok {
		// lost a race between the read and the conditional decrement
		live, err := tx.GetByID(ctx, item.ID)
		if err != nil {
			return err
		}
		have := 0
		if live != nil {
			have = live.Quantity
		}
		insufficient(have)
		return nil
	}

	w := model.Withdrawal{
		StockItemID:   item.ID,
		StockItemName: item.Name,
		TenantID:      item.TenantID,
		UserID:        actor,
		Quantity:      line.Quantity,
		TotalWeight:   scaffold.LineWeight(line.Quantity, item.Weight).Round(3).InexactFloat64(),
		Reason:        AllocationReason,
	}
	if err := tx.InsertWithdrawal(ctx, &w); err != nil {
		return err
	}
	out.withdrawn = append(out.withdrawn, w)
	return nil
}

// ownedBy reports whether tenantID may use the item. An empty tenant is the
// unscoped superadmin view.
func ownedBy(item *model.StockItem, tenantID string) bool {
	return tenantID == "" || item.TenantID == tenantID
}
