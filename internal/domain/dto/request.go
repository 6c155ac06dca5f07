// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"fmt"
	"math"
	"strings"

	"github.com/guttosm/scaffold-service/internal/scaffold"
)

// CalculateScaffoldRequest represents the JSON request body for the
// scaffold calculation endpoint. Dimensions are in metres.
//
// @Description Request to compute a scaffold bill of materials against stock
// @Example {"height": 4, "length": 4.14, "width": 0.73, "apply_to_stock": false}
type CalculateScaffoldRequest struct {
	Height float64 `json:"height" binding:"required" example:"4"`
	Length float64 `json:"length" binding:"required" example:"4.14"`
	Width  float64 `json:"width" binding:"required" example:"0.73"`
	// TenantID targets another company. Only superadmins may set it.
	TenantID string `json:"tenant_id,omitempty" example:""`
	// ApplyToStock withdraws the allocated pieces from stock.
	ApplyToStock bool `json:"apply_to_stock" example:"false"`
} // @name CalculateScaffoldRequest

// Validate checks the dimensions against the largest limit any engine accepts.
func (r *CalculateScaffoldRequest) Validate() error {
	return r.ValidateWithin(scaffold.MaxDimensionCeiling)
}

// ValidateWithin checks that every dimension is positive and at most limit.
func (r *CalculateScaffoldRequest) ValidateWithin(limit float64) error {
	return validateDimensions(r.Height, r.Length, r.Width, limit)
}

// PlanScaffoldRequest represents the JSON request body for the plan endpoint.
//
// @Description Request to compute a scaffold plan without stock
// @Example {"height": 4, "length": 4.14, "width": 0.73}
type PlanScaffoldRequest struct {
	Height float64 `json:"height" binding:"required" example:"4"`
	Length float64 `json:"length" binding:"required" example:"4.14"`
	Width  float64 `json:"width" binding:"required" example:"0.73"`
} // @name PlanScaffoldRequest

// Validate checks the dimensions against the largest limit any engine accepts.
func (r *PlanScaffoldRequest) Validate() error {
	return r.ValidateWithin(scaffold.MaxDimensionCeiling)
}

// ValidateWithin checks that every dimension is positive and at most limit.
func (r *PlanScaffoldRequest) ValidateWithin(limit float64) error {
	return validateDimensions(r.Height, r.Length, r.Width, limit)
}

func validateDimensions(height, length, width, limit float64) error {
	for _, d := range []struct {
		field string
		v     float64
	}{{"height", height}, {"length", length}, {"width", width}} {
		if d.v <= 0 || math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return &ValidationError{Field: d.field, Message: "must be a positive number"}
		}
		if d.v > limit {
			return &ValidationError{Field: d.field, Message: fmt.Sprintf("must not exceed %g m", limit)}
		}
	}
	return nil
}

// CreateStockItemRequest represents the JSON request body for adding a stock item.
//
// @Description Request to add an article to stock
// @Example {"name": "Moise 1.5m", "category": "ledger", "length": 1.5, "weight": 5.4, "quantity": 40}
type CreateStockItemRequest struct {
	Name        string   `json:"name" binding:"required" example:"Moise 1.5m"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty" example:"ledger"`
	Length      *float64 `json:"length,omitempty" example:"1.5"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Weight      *float64 `json:"weight,omitempty" example:"5.4"`
	Quantity    int      `json:"quantity" example:"40"`
	// TenantID targets another company. Only superadmins may set it.
	TenantID string `json:"tenant_id,omitempty"`
} // @name CreateStockItemRequest

// Validate performs the checks binding tags cannot express.
func (r *CreateStockItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if r.Quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "cannot be negative"}
	}
	return nil
}

// UpdateQuantityRequest overwrites the quantity of an item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required" example:"25"`
} // @name UpdateQuantityRequest

// Validate performs custom validation on the request.
func (r *UpdateQuantityRequest) Validate() error {
	if r.Quantity == nil || *r.Quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "cannot be negative"}
	}
	return nil
}

// WithdrawRequest takes units out of an item.
type WithdrawRequest struct {
	Quantity int    `json:"quantity" binding:"required" example:"4"`
	Reason   string `json:"reason,omitempty" example:"site 12"`
} // @name WithdrawRequest

// Validate performs custom validation on the request.
func (r *WithdrawRequest) Validate() error {
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// AdjustRequest applies a signed delta to an item.
type AdjustRequest struct {
	Delta  *int   `json:"delta" binding:"required" example:"-3"`
	Reason string `json:"reason,omitempty" example:"inventory count"`
} // @name AdjustRequest

// Validate performs custom validation on the request.
func (r *AdjustRequest) Validate() error {
	if r.Delta == nil {
		return &ValidationError{Field: "delta", Message: "is required"}
	}
	return nil
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrInvalidQuantity is returned when a quantity is not positive.
	ErrInvalidQuantity = &ValidationError{
		Field:   "quantity",
		Message: "must be a positive integer",
	}
)

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
