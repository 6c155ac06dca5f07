package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/scaffold"
)

// Error codes carried in ErrorResponse.Error.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeInternal           = "internal_error"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeRateLimit          = "rate_limit_exceeded"
	ErrCodeConflict           = "conflict"
	ErrCodeTimeout            = "timeout"
	ErrCodeServiceUnavailable = "service_unavailable"

	// ErrCodeInsufficientStock rejects a withdrawal or adjustment the stock cannot cover.
	ErrCodeInsufficientStock = "insufficient_stock"
	// ErrCodeIdempotencyMismatch rejects an Idempotency-Key reused for a different request.
	ErrCodeIdempotencyMismatch = "idempotency_key_reused"
)

// statusCodes maps HTTP statuses to their default error code.
var statusCodes = map[int]string{
	http.StatusBadRequest:         ErrCodeInvalidRequest,
	http.StatusUnauthorized:       ErrCodeUnauthorized,
	http.StatusForbidden:          ErrCodeForbidden,
	http.StatusNotFound:           ErrCodeNotFound,
	http.StatusRequestTimeout:     ErrCodeTimeout,
	http.StatusConflict:           ErrCodeConflict,
	http.StatusTooManyRequests:    ErrCodeRateLimit,
	http.StatusServiceUnavailable: ErrCodeServiceUnavailable,
	http.StatusGatewayTimeout:     ErrCodeTimeout,
}

// ErrCodeFromStatus returns the default error code for an HTTP status.
// Unmapped statuses report an internal error.
func ErrCodeFromStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return ErrCodeInternal
}

// SuccessResponse wraps every successful payload.
// @Description Successful API response wrapper
type SuccessResponse struct {
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name SuccessResponse

// NewSuccess wraps data for the given request.
func NewSuccess(data interface{}, requestID string) SuccessResponse {
	return SuccessResponse{Data: data, RequestID: requestID, Timestamp: time.Now().UTC()}
}

// ErrorResponse is the body of every failed request.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"height: must be a positive number"`
	// Details maps request fields to what is wrong with them.
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates an ErrorResponse stamped with the current time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: code, Message: message, Timestamp: time.Now().UTC()}
}

// WithRequestID sets the request ID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetail records a problem with one request field.
func (e ErrorResponse) WithDetail(field, problem string) ErrorResponse {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[field] = problem
	e.Details = details
	return e
}

// ScaffoldMeta describes the planned structure.
type ScaffoldMeta struct {
	Levels      int       `json:"levels" example:"2"`
	Bays        []float64 `json:"bays"`
	Frames      int       `json:"frames" example:"3"`
	DeckWidth   float64   `json:"deck_width" example:"0.73"`
	DeckColumns int       `json:"deck_columns" example:"1"`
} // @name ScaffoldMeta

// ScaffoldResponse is the bill of materials matched against stock.
// @Description Scaffold allocation result
type ScaffoldResponse struct {
	Pieces       []scaffold.AllocationLine `json:"pieces"`
	TotalWeight  float64                   `json:"total_weight" example:"182.4"`
	Meta         ScaffoldMeta              `json:"meta"`
	Requirements scaffold.RequirementMap   `json:"requirements"`
	Shortfalls   []string                  `json:"shortfalls"`
	// AppliedToStock reports whether the pieces were withdrawn.
	AppliedToStock bool `json:"applied_to_stock"`
} // @name ScaffoldResponse

// NewScaffoldResponse flattens an engine result.
func NewScaffoldResponse(r scaffold.Result, applied bool) ScaffoldResponse {
	return ScaffoldResponse{
		Pieces:         r.Allocation.Lines,
		TotalWeight:    r.Allocation.TotalWeight,
		Meta:           newScaffoldMeta(r.Plan),
		Requirements:   r.Requirements,
		Shortfalls:     r.Allocation.Shortfalls,
		AppliedToStock: applied,
	}
}

// PlanResponse is a scaffold plan without stock.
// @Description Scaffold plan and requirements
type PlanResponse struct {
	Meta         ScaffoldMeta            `json:"meta"`
	LevelHeights []float64               `json:"level_heights"`
	Requirements scaffold.RequirementMap `json:"requirements"`
} // @name PlanResponse

// NewPlanResponse flattens a plan result.
func NewPlanResponse(r scaffold.Result) PlanResponse {
	return PlanResponse{
		Meta:         newScaffoldMeta(r.Plan),
		LevelHeights: r.Plan.LevelHeights,
		Requirements: r.Requirements,
	}
}

func newScaffoldMeta(p scaffold.GeometricPlan) ScaffoldMeta {
	return ScaffoldMeta{
		Levels:      p.Levels,
		Bays:        p.Bays,
		Frames:      p.Frames,
		DeckWidth:   p.DeckWidth,
		DeckColumns: p.DeckColumns,
	}
}

// AuditLogPage is one page of persisted request and audit entries.
// @Description Page of audit log entries, newest first
type AuditLogPage struct {
	Entries []model.LogEntry `json:"entries"`
	// Total counts every matching entry, ignoring paging.
	Total  int64 `json:"total" example:"42"`
	Limit  int   `json:"limit" example:"50"`
	Offset int   `json:"offset" example:"0"`
}
