package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/service"
)

// StatsHandler provides the inventory dashboards.
type StatsHandler struct {
	stock service.StockManager
}

// NewStatsHandler creates a new StatsHandler instance.
func NewStatsHandler(stock service.StockManager) *StatsHandler {
	return &StatsHandler{stock: stock}
}

// StockStats handles GET /api/stats/stock requests.
//
// @Summary      Stock overview
// @Tags         Stats
// @Produce      json
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=model.StockStats} "Totals and low-stock alerts"
// @Security     BearerAuth
// @Router       /api/stats/stock [get]
func (h *StatsHandler) StockStats(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	stats, err := h.stock.Stats(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(stats)
}

// Categories handles GET /api/stats/categories requests.
//
// @Summary      Stock per category
// @Tags         Stats
// @Produce      json
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.CategoryStats} "Per-category totals"
// @Security     BearerAuth
// @Router       /api/stats/categories [get]
func (h *StatsHandler) Categories(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	stats, err := h.stock.CategoryStats(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(stats)
}

// RecentWithdrawals handles GET /api/stats/withdrawals/recent requests.
//
// @Summary      Recent withdrawals
// @Tags         Stats
// @Produce      json
// @Param        days query int false "Window in days (default 7)"
// @Param        limit query int false "Maximum rows (default 50)"
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Withdrawal} "Withdrawals, newest first"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Security     BearerAuth
// @Router       /api/stats/withdrawals/recent [get]
func (h *StatsHandler) RecentWithdrawals(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	days, err := intQuery(c, "days", 0)
	if err != nil {
		return
	}
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		return
	}

	history, err := h.stock.RecentWithdrawals(c.Request.Context(), tenantID, days, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(history)
}

// WithdrawalsByUser handles GET /api/stats/withdrawals/by-user requests.
//
// @Summary      Withdrawals per user
// @Tags         Stats
// @Produce      json
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.UserWithdrawalStats} "Per-user totals, busiest first"
// @Security     BearerAuth
// @Router       /api/stats/withdrawals/by-user [get]
func (h *StatsHandler) WithdrawalsByUser(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	stats, err := h.stock.WithdrawalStatsByUser(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(stats)
}

// Withdrawals handles GET /api/withdrawals requests.
//
// @Summary      Withdrawal history
// @Tags         Stats
// @Produce      json
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Withdrawal} "Withdrawals, newest first"
// @Security     BearerAuth
// @Router       /api/withdrawals [get]
func (h *StatsHandler) Withdrawals(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	history, err := h.stock.Withdrawals(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(history)
}
