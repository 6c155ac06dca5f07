package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/service"
)

// StockRoutes handles inventory and statistics route registration.
type StockRoutes struct {
	stock *StockHandler
	stats *StatsHandler
}

// NewStockRoutes creates a new StockRoutes instance.
func NewStockRoutes(stock service.StockManager) *StockRoutes {
	return &StockRoutes{
		stock: NewStockHandler(stock),
		stats: NewStatsHandler(stock),
	}
}

// RegisterRoutes registers the stock, statistics and withdrawal endpoints.
// Deleting an item requires the admin role.
func (r *StockRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	stock := rg.Group("/stock")
	{
		stock.POST("", r.stock.Create)
		stock.GET("", r.stock.List)
		stock.GET("/search", r.stock.Search)
		stock.GET("/low", r.stock.LowStock)
		stock.GET("/:id", r.stock.Get)
		stock.PUT("/:id", r.stock.SetQuantity)
		stock.DELETE("/:id", middleware.RequireRoles(dto.RoleAdmin), r.stock.Delete)
		stock.POST("/:id/withdraw", r.stock.Withdraw)
		stock.POST("/:id/adjust", r.stock.Adjust)
	}

	stats := rg.Group("/stats")
	{
		stats.GET("/stock", r.stats.StockStats)
		stats.GET("/categories", r.stats.Categories)
		stats.GET("/withdrawals/recent", r.stats.RecentWithdrawals)
		stats.GET("/withdrawals/by-user", r.stats.WithdrawalsByUser)
	}

	rg.GET("/withdrawals", r.stats.Withdrawals)
}
