//go:build !integration

package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/internal/domain/model"
)

func TestStatsHandler_StockStats(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env.router, http.MethodGet, "/api/stats/stock", "", identity("t1", "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.StockStats
	decodeData(t, w, &stats)
	assert.Equal(t, model.StockStats{
		TotalItems:      4,
		TotalQuantity:   35,
		LowStockAlerts:  4,
		CategoryCount:   3,
		LowStockTrigger: 10,
	}, stats)

	w = doRequest(env.router, http.MethodGet, "/api/stats/stock?tenant=t2", "", identity("t1", "u1", ""))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatsHandler_Categories(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(env.router, http.MethodGet, "/api/stats/categories", "", identity("t1", "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)

	var stats []model.CategoryStats
	decodeData(t, w, &stats)
	assert.Equal(t, []model.CategoryStats{
		{Category: "base_jack", ItemCount: 1, TotalQuantity: 10, TotalWeight: 30},
		{Category: "ledger", ItemCount: 2, TotalQuantity: 20, TotalWeight: 154},
		{Category: "upright", ItemCount: 1, TotalQuantity: 5, TotalWeight: 42.5},
	}, stats)
}

func TestStatsHandler_Withdrawals(t *testing.T) {
	env := newTestEnv(t)
	ledger := "/api/stock/" + env.items[3].ID + "/withdraw"
	upright := "/api/stock/" + env.items[0].ID + "/withdraw"

	require.Equal(t, http.StatusOK, doRequest(env.router, http.MethodPost, ledger, `{"quantity": 2}`, identity("t1", "u1", "")).Code)
	require.Equal(t, http.StatusOK, doRequest(env.router, http.MethodPost, ledger, `{"quantity": 3}`, identity("t1", "u2", "")).Code)
	require.Equal(t, http.StatusOK, doRequest(env.router, http.MethodPost, upright, `{"quantity": 4}`, identity("t1", "u2", "")).Code)

	t.Run("full history", func(t *testing.T) {
		w := doRequest(env.router, http.MethodGet, "/api/withdrawals", "", identity("t1", "u1", ""))
		require.Equal(t, http.StatusOK, w.Code)
		var history []model.Withdrawal
		decodeData(t, w, &history)
		assert.Len(t, history, 3)

		w = doRequest(env.router, http.MethodGet, "/api/withdrawals", "", identity("t2", "u9", ""))
		decodeData(t, w, &history)
		assert.Empty(t, history)
	})

	t.Run("recent with limit", func(t *testing.T) {
		w := doRequest(env.router, http.MethodGet, "/api/stats/withdrawals/recent?days=1&limit=2", "", identity("t1", "u1", ""))
		require.Equal(t, http.StatusOK, w.Code)
		var recent []model.Withdrawal
		decodeData(t, w, &recent)
		assert.Len(t, recent, 2)

		w = doRequest(env.router, http.MethodGet, "/api/stats/withdrawals/recent?days=x", "", identity("t1", "u1", ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("by user", func(t *testing.T) {
		w := doRequest(env.router, http.MethodGet, "/api/stats/withdrawals/by-user", "", identity("t1", "u1", ""))
		require.Equal(t, http.StatusOK, w.Code)
		var byUser []model.UserWithdrawalStats
		decodeData(t, w, &byUser)
		require.Len(t, byUser, 2)
		assert.Equal(t, "u2", byUser[0].UserID)
		assert.Equal(t, 2, byUser[0].WithdrawalCount)
		assert.Equal(t, 7, byUser[0].TotalQuantity)
		assert.Equal(t, "u1", byUser[1].UserID)
		assert.InDelta(t, 10.8, byUser[1].TotalWeight, 0.001)
	})
}
