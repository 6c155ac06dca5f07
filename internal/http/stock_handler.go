package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/service"
)

// tenantQuery lets superadmins target a tenant on read endpoints.
const tenantQuery = "tenant"

// StockHandler provides HTTP handlers for inventory routes.
type StockHandler struct {
	stock service.StockManager
}

// NewStockHandler creates a new StockHandler instance.
func NewStockHandler(stock service.StockManager) *StockHandler {
	return &StockHandler{stock: stock}
}

// Create handles POST /api/stock requests.
//
// @Summary      Add a stock item
// @Description  Adds an article to the tenant's stock. When an article with the same name, category and dimensions exists, its quantity is increased instead.
// @Tags         Stock
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateStockItemRequest true "Stock item"
// @Success      201 {object} dto.SuccessResponse{data=model.StockItem} "Item created"
// @Success      200 {object} dto.SuccessResponse{data=model.StockItem} "Quantity merged into an existing item"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - tenant not accessible"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *gin.Context) {
	req, ok := bindAndValidate[dto.CreateStockItemRequest](c)
	if !ok {
		return
	}
	tenantID, ok := tenantScope(c, req.TenantID)
	if !ok {
		return
	}
	if tenantID == "" {
		respondError(c, middleware.ErrTenantRequired)
		return
	}

	item, created, err := h.stock.Create(c.Request.Context(), model.StockItem{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Length:      req.Length,
		Width:       req.Width,
		Height:      req.Height,
		Weight:      req.Weight,
		Quantity:    req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	builder := NewResponseBuilder(c)
	if created {
		builder.SuccessCreated(item)
		return
	}
	builder.SuccessOK(item)
}

// List handles GET /api/stock requests.
//
// @Summary      List stock
// @Description  Lists the tenant's stock items ordered by name.
// @Tags         Stock
// @Produce      json
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.StockItem} "Stock items"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - tenant not accessible"
// @Failure      503 {object} dto.ErrorResponse "Stock store unavailable"
// @Security     BearerAuth
// @Router       /api/stock [get]
func (h *StockHandler) List(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	items, err := h.stock.List(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(items)
}

// Get handles GET /api/stock/:id requests.
//
// @Summary      Get a stock item
// @Tags         Stock
// @Produce      json
// @Param        id path string true "Stock item ID"
// @Success      200 {object} dto.SuccessResponse{data=model.StockItem} "Stock item"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Security     BearerAuth
// @Router       /api/stock/{id} [get]
func (h *StockHandler) Get(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	item, err := h.stock.Get(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(item)
}

// SetQuantity handles PUT /api/stock/:id requests.
//
// @Summary      Set the quantity of a stock item
// @Tags         Stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock item ID"
// @Param        request body dto.UpdateQuantityRequest true "New quantity"
// @Success      200 {object} dto.SuccessResponse{data=model.StockItem} "Updated item"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Security     BearerAuth
// @Router       /api/stock/{id} [put]
func (h *StockHandler) SetQuantity(c *gin.Context) {
	req, ok := bindAndValidate[dto.UpdateQuantityRequest](c)
	if !ok {
		return
	}
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	item, err := h.stock.SetQuantity(c.Request.Context(), tenantID, c.Param("id"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(item)
}

// Delete handles DELETE /api/stock/:id requests.
//
// @Summary      Delete a stock item
// @Description  Requires the admin role.
// @Tags         Stock
// @Produce      json
// @Param        id path string true "Stock item ID"
// @Success      200 {object} dto.SuccessResponse "Item deleted"
// @Failure      403 {object} dto.ErrorResponse "Forbidden"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Security     BearerAuth
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.stock.Delete(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, err)
		return
	}
	middleware.AuditLog(auditLogger(c), c, middleware.ActionStockDelete, "Stock item deleted", map[string]interface{}{
		"stock_item_id": id,
	})
	NewResponseBuilder(c).SuccessOK(gin.H{"id": id, "deleted": true})
}

// Withdraw handles POST /api/stock/:id/withdraw requests.
//
// @Summary      Withdraw stock
// @Description  Takes units out of an item and records the withdrawal.
// @Tags         Stock
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        id path string true "Stock item ID"
// @Param        request body dto.WithdrawRequest true "Withdrawal"
// @Success      200 {object} dto.SuccessResponse{data=service.WithdrawResult} "Withdrawal recorded"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Failure      409 {object} dto.ErrorResponse "Insufficient stock"
// @Security     BearerAuth
// @Router       /api/stock/{id}/withdraw [post]
func (h *StockHandler) Withdraw(c *gin.Context) {
	req, ok := bindAndValidate[dto.WithdrawRequest](c)
	if !ok {
		return
	}
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}

	id := c.Param("id")
	result, err := h.stock.Withdraw(c.Request.Context(), tenantID, middleware.GetUserID(c), id, req.Quantity, req.Reason)
	if err != nil {
		middleware.AuditLogError(auditLogger(c), c, middleware.ActionStockWithdraw, "Stock withdrawal rejected", err, map[string]interface{}{
			"stock_item_id": id,
			"quantity":      req.Quantity,
		})
		respondError(c, err)
		return
	}

	middleware.AuditLog(auditLogger(c), c, middleware.ActionStockWithdraw, i18n.GetTranslator().Translate(i18n.SuccessKeyStockWithdrawn, i18n.DefaultLocale), map[string]interface{}{
		"stock_item_id": id,
		"quantity":      req.Quantity,
		"remaining":     result.Remaining,
	})
	NewResponseBuilder(c).SuccessOK(result)
}

// Adjust handles POST /api/stock/:id/adjust requests.
//
// @Summary      Adjust stock
// @Description  Applies a signed delta to an item. The quantity may not go below zero.
// @Tags         Stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock item ID"
// @Param        request body dto.AdjustRequest true "Adjustment"
// @Success      200 {object} dto.SuccessResponse{data=service.AdjustResult} "Adjustment applied"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Failure      409 {object} dto.ErrorResponse "Quantity would become negative"
// @Security     BearerAuth
// @Router       /api/stock/{id}/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	req, ok := bindAndValidate[dto.AdjustRequest](c)
	if !ok {
		return
	}
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}

	id := c.Param("id")
	result, err := h.stock.Adjust(c.Request.Context(), tenantID, id, *req.Delta, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.AuditLog(auditLogger(c), c, middleware.ActionStockAdjust, "Stock adjusted", map[string]interface{}{
		"stock_item_id": id,
		"delta":         result.Delta,
		"old_quantity":  result.OldQuantity,
		"new_quantity":  result.NewQuantity,
		"reason":        result.Reason,
	})
	NewResponseBuilder(c).SuccessOK(result)
}

// Search handles GET /api/stock/search requests.
//
// @Summary      Search stock
// @Description  Filters by a case-insensitive substring of name or category, by category and by quantity bounds.
// @Tags         Stock
// @Produce      json
// @Param        q query string false "Name or category substring"
// @Param        category query string false "Category substring"
// @Param        min_stock query int false "Minimum quantity"
// @Param        max_stock query int false "Maximum quantity"
// @Param        skip query int false "Items to skip"
// @Param        limit query int false "Maximum items (default 100)"
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.StockItem} "Matching items"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Security     BearerAuth
// @Router       /api/stock/search [get]
func (h *StockHandler) Search(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}

	filter := model.StockFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	var err error
	if filter.MinStock, err = optionalInt(c, "min_stock"); err != nil {
		return
	}
	if filter.MaxStock, err = optionalInt(c, "max_stock"); err != nil {
		return
	}
	if filter.Skip, err = intQuery(c, "skip", 0); err != nil {
		return
	}
	if filter.Limit, err = intQuery(c, "limit", 0); err != nil {
		return
	}

	items, err := h.stock.Search(c.Request.Context(), tenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(items)
}

// LowStock handles GET /api/stock/low requests.
//
// @Summary      List low stock
// @Description  Lists items whose quantity is at or below the threshold.
// @Tags         Stock
// @Produce      json
// @Param        threshold query int false "Threshold (default from configuration)"
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.StockItem} "Low stock items"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Security     BearerAuth
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	threshold, err := intQuery(c, "threshold", -1)
	if err != nil {
		return
	}

	items, err := h.stock.LowStock(c.Request.Context(), tenantID, threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(items)
}

// intQuery parses an integer query parameter. On a malformed value it writes
// the 400 response and returns the parse error.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, &dto.ValidationError{Field: name, Message: "must be an integer"})
		return 0, err
	}
	return n, nil
}

func optionalInt(c *gin.Context, name string) (*int, error) {
	if c.Query(name) == "" {
		return nil, nil
	}
	n, err := intQuery(c, name, 0)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
