// Package service contains the business logic of the scaffold service:
// engine runs, stock commits and stock management.
package service

import "errors"

var (
	// ErrStockItemNotFound is returned when a stock item does not exist or
	// belongs to another tenant.
	ErrStockItemNotFound = errors.New("stock item not found")
	// ErrInsufficientStock is returned when a withdrawal exceeds the available quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNegativeStock is returned when an adjustment would leave a negative quantity.
	ErrNegativeStock = errors.New("stock cannot become negative")
	// ErrInvalidStockItem is returned for items failing validation.
	ErrInvalidStockItem = errors.New("invalid stock item")
	// ErrInvalidQuantity is returned for non-positive withdrawal quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// IsBusinessError reports whether err is an expected stock outcome rather
// than an infrastructure failure.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrStockItemNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNegativeStock) ||
		errors.Is(err, ErrInvalidStockItem) ||
		errors.Is(err, ErrInvalidQuantity)
}
