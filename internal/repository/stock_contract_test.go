package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStockRepositoryContract exercises the behavior every stock store shares.
// newRepo must return an empty store.
func runStockRepositoryContract(t *testing.T, newRepo func(t *testing.T) StockRepositoryInterface) {
	ctx := context.Background()

	seed := func(t *testing.T, repo StockRepositoryInterface, items ...model.StockItem) []model.StockItem {
		out := make([]model.StockItem, 0, len(items))
		for i := range items {
			item := items[i]
			require.NoError(t, repo.Create(ctx, &item))
			out = append(out, item)
		}
		return out
	}

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		item := model.StockItem{Name: "Moise 1.5m", Category: "ledger", Length: model.Float(1.5), Weight: model.Float(5.4), Quantity: 40, TenantID: "t1"}
		require.NoError(t, repo.Create(ctx, &item))

		assert.NotEmpty(t, item.ID)
		assert.False(t, item.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Moise 1.5m", got.Name)
		assert.Equal(t, 40, got.Quantity)
		require.NotNil(t, got.Length)
		assert.InDelta(t, 1.5, *got.Length, 1e-9)
		assert.Nil(t, got.Width)
	})

	t.Run("create rejects negative quantity", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Create(ctx, &model.StockItem{Name: "Socle", Quantity: -1})
		assert.ErrorIs(t, err, ErrNegativeQuantity)
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list is scoped by tenant and sorted by name", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			model.StockItem{Name: "Plateau 3m", Quantity: 10, TenantID: "t1"},
			model.StockItem{Name: "Cadre 2m", Quantity: 5, TenantID: "t1"},
			model.StockItem{Name: "Socle", Quantity: 8, TenantID: "t2"},
		)

		items, err := repo.List(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Cadre 2m", items[0].Name)
		assert.Equal(t, "Plateau 3m", items[1].Name)

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("search filters", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo,
			model.StockItem{Name: "Moise 1m", Category: "ledger", Quantity: 4, TenantID: "t1"},
			model.StockItem{Name: "Moise 2m", Category: "ledger", Quantity: 30, TenantID: "t1"},
			model.StockItem{Name: "Plateau 3m", Category: "deck", Quantity: 12, TenantID: "t1"},
			model.StockItem{Name: "Moise 100%", Category: "ledger", Quantity: 1, TenantID: "t2"},
		)

		minStock, maxStock := 5, 20
		tests := []struct {
			name   string
			filter model.StockFilter
			want   []string
		}{
			{"query on name", model.StockFilter{Query: "MOISE"}, []string{"Moise 1m", "Moise 2m"}},
			{"query on category", model.StockFilter{Query: "dec"}, []string{"Plateau 3m"}},
			{"category", model.StockFilter{Category: "ledger"}, []string{"Moise 1m", "Moise 2m"}},
			{"min stock", model.StockFilter{MinStock: &minStock}, []string{"Moise 2m", "Plateau 3m"}},
			{"max stock", model.StockFilter{MaxStock: &maxStock}, []string{"Moise 1m", "Plateau 3m"}},
			{"skip and limit", model.StockFilter{Skip: 1, Limit: 1}, []string{"Moise 2m"}},
			{"skip past end", model.StockFilter{Skip: 10}, []string{}},
			{"wildcards are literal", model.StockFilter{Query: "%"}, []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				items, err := repo.Search(ctx, "t1", tt.filter)
				require.NoError(t, err)
				names := make([]string, 0, len(items))
				for _, item := range items {
					names = append(names, item.Name)
				}
				assert.Equal(t, tt.want, names)
			})
		}
	})

	t.Run("set quantity", func(t *testing.T) {
		repo := newRepo(t)
		items := seed(t, repo, model.StockItem{Name: "Socle", Quantity: 8})

		got, err := repo.SetQuantity(ctx, items[0].ID, 20)
		require.NoError(t, err)
		assert.Equal(t, 20, got.Quantity)

		_, err = repo.SetQuantity(ctx, items[0].ID, -1)
		assert.ErrorIs(t, err, ErrNegativeQuantity)

		_, err = repo.SetQuantity(ctx, "missing", 1)
		assert.ErrorIs(t, err, ErrStockItemNotFound)
	})

	t.Run("adjust quantity", func(t *testing.T) {
		repo := newRepo(t)
		items := seed(t, repo, model.StockItem{Name: "Socle", Quantity: 8})
		id := items[0].ID

		got, err := repo.AdjustQuantity(ctx, id, 2)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Quantity)

		got, err = repo.AdjustQuantity(ctx, id, -10)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)

		_, err = repo.AdjustQuantity(ctx, id, -1)
		assert.ErrorIs(t, err, ErrNegativeQuantity)

		_, err = repo.AdjustQuantity(ctx, "missing", -1)
		assert.ErrorIs(t, err, ErrStockItemNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		items := seed(t, repo, model.StockItem{Name: "Socle", Quantity: 8})

		require.NoError(t, repo.Delete(ctx, items[0].ID))
		got, err := repo.GetByID(ctx, items[0].ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.ErrorIs(t, repo.Delete(ctx, items[0].ID), ErrStockItemNotFound)
	})

	t.Run("transaction commits decrements and withdrawals", func(t *testing.T) {
		repo := newRepo(t)
		items := seed(t, repo, model.StockItem{Name: "Cadre 2m", Quantity: 10, TenantID: "t1"})
		id := items[0].ID

		err := repo.WithTx(ctx, func(ctx context.Context, tx StockTx) error {
			live, err := tx.GetByID(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, live)

			ok, err := tx.Decrement(ctx, id, 4)
			if err != nil {
				return err
			}
			assert.True(t, ok)

			ok, err = tx.Decrement(ctx, id, 7)
			if err != nil {
				return err
			}
			assert.False(t, ok, "only 6 left")

			return tx.InsertWithdrawal(ctx, &model.Withdrawal{
				StockItemID: id, StockItemName: "Cadre 2m", TenantID: "t1", UserID: "u1",
				Quantity: 4, TotalWeight: 48, Reason: "scaffold allocation",
			})
		})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 6, got.Quantity)

		history, err := repo.ListWithdrawals(ctx, WithdrawalQuery{TenantID: "t1"})
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.NotEmpty(t, history[0].ID)
		assert.Equal(t, 4, history[0].Quantity)
		assert.Equal(t, "u1", history[0].UserID)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		repo := newRepo(t)
		items := seed(t, repo, model.StockItem{Name: "Cadre 2m", Quantity: 10, TenantID: "t1"})
		id := items[0].ID
		boom := errors.New("boom")

		err := repo.WithTx(ctx, func(ctx context.Context, tx StockTx) error {
			if _, err := tx.Decrement(ctx, id, 4); err != nil {
				return err
			}
			if err := tx.InsertWithdrawal(ctx, &model.Withdrawal{StockItemID: id, TenantID: "t1", Quantity: 4}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Quantity)

		history, err := repo.ListWithdrawals(ctx, WithdrawalQuery{})
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("withdrawal history is newest first", func(t *testing.T) {
		repo := newRepo(t)
		now := time.Now().UTC().Truncate(time.Millisecond)

		err := repo.WithTx(ctx, func(ctx context.Context, tx StockTx) error {
			for i, age := range []time.Duration{48 * time.Hour, time.Hour, 10 * 24 * time.Hour} {
				w := &model.Withdrawal{
					StockItemID: "s1", TenantID: "t1", Quantity: i + 1,
					CreatedAt: now.Add(-age),
				}
				if err := tx.InsertWithdrawal(ctx, w); err != nil {
					return err
				}
			}
			return tx.InsertWithdrawal(ctx, &model.Withdrawal{StockItemID: "s2", TenantID: "t2", Quantity: 9, CreatedAt: now})
		})
		require.NoError(t, err)

		history, err := repo.ListWithdrawals(ctx, WithdrawalQuery{TenantID: "t1"})
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, []int{2, 1, 3}, []int{history[0].Quantity, history[1].Quantity, history[2].Quantity})

		recent, err := repo.ListWithdrawals(ctx, WithdrawalQuery{TenantID: "t1", Since: now.Add(-7 * 24 * time.Hour)})
		require.NoError(t, err)
		assert.Len(t, recent, 2)

		limited, err := repo.ListWithdrawals(ctx, WithdrawalQuery{Limit: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, 9, limited[0].Quantity)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newRepo(t).Ping(ctx))
	})
}
