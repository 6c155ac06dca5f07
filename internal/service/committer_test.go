//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/mocks"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedStock(t *testing.T, repo repository.StockRepositoryInterface, items ...model.StockItem) []model.StockItem {
	t.Helper()
	out := make([]model.StockItem, 0, len(items))
	for i := range items {
		item := items[i]
		require.NoError(t, repo.Create(context.Background(), &item))
		out = append(out, item)
	}
	return out
}

func TestStockCommitter_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("withdraws every line and records withdrawals", func(t *testing.T) {
		repo := repository.NewMemoryStockRepository()
		items := seedStock(t, repo,
			model.StockItem{Name: "Cadre 2m", Category: "upright", Weight: model.Float(12), Quantity: 10, TenantID: "t1"},
			model.StockItem{Name: "Moise 1.5m", Category: "ledger", Length: model.Float(1.5), Weight: model.Float(5.4), Quantity: 8, TenantID: "t1"},
		)

		failures, err := NewStockCommitter(repo).Commit(ctx, []scaffold.AllocationLine{
			{StockItemID: items[0].ID, Name: "Cadre 2m", Quantity: 6},
			{StockItemID: items[1].ID, Name: "Moise 1.5m", Quantity: 3},
		}, "t1", "u1")
		require.NoError(t, err)
		assert.Empty(t, failures)
		assert.NotNil(t, failures)

		frames, _ := repo.GetByID(ctx, items[0].ID)
		ledgers, _ := repo.GetByID(ctx, items[1].ID)
		assert.Equal(t, 4, frames.Quantity)
		assert.Equal(t, 5, ledgers.Quantity)

		history, err := repo.ListWithdrawals(ctx, repository.WithdrawalQuery{TenantID: "t1"})
		require.NoError(t, err)
		require.Len(t, history, 2)

		byItem := map[string]model.Withdrawal{}
		for _, w := range history {
			byItem[w.StockItemID] = w
		}
		assert.InDelta(t, 72.0, byItem[items[0].ID].TotalWeight, 1e-9)
		assert.InDelta(t, 16.2, byItem[items[1].ID].TotalWeight, 1e-9)
		assert.Equal(t, "u1", byItem[items[0].ID].UserID)
		assert.Equal(t, AllocationReason, byItem[items[0].ID].Reason)
	})

	t.Run("records per-line failures without aborting", func(t *testing.T) {
		repo := repository.NewMemoryStockRepository()
		items := seedStock(t, repo,
			model.StockItem{Name: "Cadre 2m", Quantity: 2, TenantID: "t1"},
			model.StockItem{Name: "Socle", Quantity: 9, TenantID: "t1"},
			model.StockItem{Name: "Plateau", Quantity: 9, TenantID: "t2"},
		)

		failures, err := NewStockCommitter(repo).Commit(ctx, []scaffold.AllocationLine{
			{StockItemID: items[0].ID, Quantity: 5},
			{StockItemID: "gone", Quantity: 1},
			{StockItemID: items[2].ID, Quantity: 1},
			{StockItemID: items[1].ID, Quantity: 4},
			{StockItemID: items[1].ID, Quantity: 0},
		}, "t1", "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"stock item Cadre 2m: insufficient stock (2 < 5)",
			"stock item gone not found",
			"stock item " + items[2].ID + " not found",
		}, failures)

		frames, _ := repo.GetByID(ctx, items[0].ID)
		jacks, _ := repo.GetByID(ctx, items[1].ID)
		other, _ := repo.GetByID(ctx, items[2].ID)
		assert.Equal(t, 2, frames.Quantity)
		assert.Equal(t, 5, jacks.Quantity)
		assert.Equal(t, 9, other.Quantity, "other tenant untouched")
	})

	t.Run("lines draining the same item see earlier lines", func(t *testing.T) {
		repo := repository.NewMemoryStockRepository()
		items := seedStock(t, repo, model.StockItem{Name: "Socle", Quantity: 5})

		failures, err := NewStockCommitter(repo).Commit(ctx, []scaffold.AllocationLine{
			{StockItemID: items[0].ID, Quantity: 3},
			{StockItemID: items[0].ID, Quantity: 3},
		}, "", "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"stock item Socle: insufficient stock (2 < 3)"}, failures)
	})

	t.Run("storage error rolls back every line", func(t *testing.T) {
		repo := repository.NewMemoryStockRepository()
		items := seedStock(t, repo,
			model.StockItem{Name: "Socle", Quantity: 5},
			model.StockItem{Name: "Cadre 2m", Quantity: 5},
		)
		boom := errors.New("disk full")
		failing := &insertFailingRepo{MemoryStockRepository: repo, failOn: items[1].ID, err: boom}

		_, err := NewStockCommitter(failing).Commit(ctx, []scaffold.AllocationLine{
			{StockItemID: items[0].ID, Quantity: 2},
			{StockItemID: items[1].ID, Quantity: 2},
		}, "", "u1")
		assert.ErrorIs(t, err, boom)

		jacks, _ := repo.GetByID(ctx, items[0].ID)
		assert.Equal(t, 5, jacks.Quantity)
		history, _ := repo.ListWithdrawals(ctx, repository.WithdrawalQuery{})
		assert.Empty(t, history)
	})

	t.Run("lost race on decrement is reported as insufficient", func(t *testing.T) {
		tx := new(mocks.MockStockTx)
		repo := &mocks.MockStockRepositoryInterface{Tx: tx}
		repo.On("WithTx", mock.Anything, mock.Anything).Return(nil)

		item := &model.StockItem{ID: "s1", Name: "Socle", Quantity: 4}
		tx.On("GetByID", mock.Anything, "s1").Return(item, nil).Once()
		tx.On("Decrement", mock.Anything, "s1", 3).Return(false, nil)
		tx.On("GetByID", mock.Anything, "s1").Return(&model.StockItem{ID: "s1", Name: "Socle", Quantity: 1}, nil).Once()

		failures, err := NewStockCommitter(repo).Commit(ctx, []scaffold.AllocationLine{
			{StockItemID: "s1", Quantity: 3},
		}, "", "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"stock item Socle: insufficient stock (1 < 3)"}, failures)
		tx.AssertNotCalled(t, "InsertWithdrawal", mock.Anything, mock.Anything)
	})

	t.Run("transaction failure is wrapped", func(t *testing.T) {
		repo := new(mocks.MockStockRepositoryInterface)
		repo.On("WithTx", mock.Anything, mock.Anything).Return(errors.New("no replica set"))

		_, err := NewStockCommitter(repo).Commit(ctx, []scaffold.AllocationLine{{StockItemID: "s1", Quantity: 1}}, "", "u1")
		assert.ErrorContains(t, err, "commit allocation")
	})
}

// insertFailingRepo fails the withdrawal insert of one stock item.
type insertFailingRepo struct {
	*repository.MemoryStockRepository
	failOn string
	err    error
}

func (r *insertFailingRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.StockTx) error) error {
	return r.MemoryStockRepository.WithTx(ctx, func(ctx context.Context, tx repository.StockTx) error {
		return fn(ctx, &insertFailingTx{StockTx: tx, failOn: r.failOn, err: r.err})
	})
}

type insertFailingTx struct {
	repository.StockTx
	failOn string
	err    error
}

func (t *insertFailingTx) InsertWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	if w.StockItemID == t.failOn {
		return t.err
	}
	return t.StockTx.InsertWithdrawal(ctx, w)
}
