package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/guttosm/scaffold-service/internal/service"
)

// loggingServiceKey is where the router stores the audit logging service.
const loggingServiceKey = "logging_service"

// ScaffoldHandler provides HTTP handlers for the allocation engine.
type ScaffoldHandler struct {
	calculator   service.ScaffoldCalculator
	maxDimension float64
}

// NewScaffoldHandler creates a new ScaffoldHandler instance. Dimensions above
// maxDimension are rejected; a non-positive value selects the engine default.
func NewScaffoldHandler(calculator service.ScaffoldCalculator, maxDimension float64) *ScaffoldHandler {
	if maxDimension <= 0 {
		maxDimension = scaffold.DefaultMaxDimension
	}
	return &ScaffoldHandler{calculator: calculator, maxDimension: maxDimension}
}

// Calculate handles POST /api/scaffold/calculate requests.
//
// @Summary      Calculate a scaffold bill of materials
// @Description  Plans a scaffold for the given height, length and width, derives the pieces it needs and matches them against the tenant's stock. Missing pieces are reported as shortfalls. With apply_to_stock the allocated pieces are withdrawn in one transaction. Supports idempotency via Idempotency-Key header.
// @Tags         Scaffold
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.CalculateScaffoldRequest true "Scaffold dimensions in metres"
// @Success      200 {object} dto.SuccessResponse{data=dto.ScaffoldResponse} "Allocation computed"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid dimensions"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - tenant not accessible"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Stock store unavailable"
// @Security     BearerAuth
// @Router       /api/scaffold/calculate [post]
func (h *ScaffoldHandler) Calculate(c *gin.Context) {
	req, ok := bindAndValidate[dto.CalculateScaffoldRequest](c)
	if ok {
		if err := req.ValidateWithin(h.maxDimension); err != nil {
			respondError(c, err)
			ok = false
		}
	}
	if !ok {
		metrics.RecordScaffoldCalculation("allocate", 0, "validation_error")
		return
	}
	tenantID, ok := tenantScope(c, req.TenantID)
	if !ok {
		return
	}

	calc, err := h.calculator.Calculate(c.Request.Context(), service.CalculateRequest{
		Dimensions:   service.Dimensions{Height: req.Height, Length: req.Length, Width: req.Width},
		TenantID:     tenantID,
		UserID:       middleware.GetUserID(c),
		ApplyToStock: req.ApplyToStock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if req.ApplyToStock {
		middleware.AuditLog(auditLogger(c), c, middleware.ActionScaffoldApply, "Scaffold allocation applied to stock", map[string]interface{}{
			"height":     req.Height,
			"length":     req.Length,
			"width":      req.Width,
			"pieces":     len(calc.Allocation.Lines),
			"shortfalls": len(calc.Allocation.Shortfalls),
			"committed":  calc.Committed,
		})
	}

	NewResponseBuilder(c).SuccessOK(dto.NewScaffoldResponse(calc.Result, calc.Committed))
}

// Plan handles POST /api/scaffold/plan requests.
//
// @Summary      Plan a scaffold
// @Description  Returns the geometric plan (levels, bays, frames, deck layout) and the piece requirements, without looking at stock.
// @Tags         Scaffold
// @Accept       json
// @Produce      json
// @Param        request body dto.PlanScaffoldRequest true "Scaffold dimensions in metres"
// @Success      200 {object} dto.SuccessResponse{data=dto.PlanResponse} "Plan computed"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid dimensions"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/scaffold/plan [post]
func (h *ScaffoldHandler) Plan(c *gin.Context) {
	req, ok := bindAndValidate[dto.PlanScaffoldRequest](c)
	if !ok {
		return
	}
	if err := req.ValidateWithin(h.maxDimension); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.calculator.Plan(c.Request.Context(), service.Dimensions{
		Height: req.Height, Length: req.Length, Width: req.Width,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	NewResponseBuilder(c).Success(http.StatusOK, dto.NewPlanResponse(result))
}
