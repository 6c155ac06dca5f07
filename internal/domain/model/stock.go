// Package model defines the core domain entities for the scaffold service.
package model

import (
	"strings"
	"time"
)

// StockItem is one line of physical inventory owned by a tenant.
//
// @Description Stock item with optional nominal dimensions
// @Example {"id": "6c1f...", "name": "Moise 1.5m", "category": "ledger", "length": 1.5, "weight": 5.4, "quantity": 40}
type StockItem struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name" example:"Moise 1.5m"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	// Category is empty when it must be inferred from the name.
	Category string `bson:"category,omitempty" json:"category,omitempty" example:"ledger"`
	// Nil dimensions mean the dimension does not apply to this piece type.
	Length   *float64  `bson:"length,omitempty" json:"length,omitempty" example:"1.5"`
	Width    *float64  `bson:"width,omitempty" json:"width,omitempty"`
	Height   *float64  `bson:"height,omitempty" json:"height,omitempty"`
	Weight   *float64  `bson:"weight,omitempty" json:"weight,omitempty" example:"5.4"`
	Quantity int       `bson:"quantity" json:"quantity" example:"40"`
	TenantID string    `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	// CreatedAt and UpdatedAt are maintained by the repositories.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UnitWeight returns the weight of one unit, zero when unknown.
func (s StockItem) UnitWeight() float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

// SameIdentity reports whether two items describe the same physical piece:
// same tenant, same name and same optional dimensions.
func (s StockItem) SameIdentity(other StockItem) bool {
	return s.TenantID == other.TenantID &&
		strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(other.Name)) &&
		SameDimension(s.Length, other.Length) &&
		SameDimension(s.Width, other.Width) &&
		SameDimension(s.Height, other.Height)
}

// SameDimension compares two optional dimensions: both absent, or both present and equal.
func SameDimension(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Float returns a pointer to v. Handy for optional dimensions.
func Float(v float64) *float64 {
	return &v
}

// Withdrawal is the audit record of stock leaving the inventory.
type Withdrawal struct {
	ID            string    `bson:"_id" json:"id"`
	StockItemID   string    `bson:"stock_item_id" json:"stock_item_id"`
	StockItemName string    `bson:"stock_item_name" json:"stock_item_name"`
	TenantID      string    `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	UserID        string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	TotalWeight   float64   `bson:"total_weight" json:"total_weight"`
	Reason        string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// StockFilter narrows a stock search. Zero values disable a criterion.
type StockFilter struct {
	Query    string
	Category string
	MinStock *int
	MaxStock *int
	Skip     int
	Limit    int
}

// CategoryStats aggregates stock for one category.
type CategoryStats struct {
	Category      string  `json:"category"`
	ItemCount     int     `json:"item_count"`
	TotalQuantity int     `json:"total_quantity"`
	TotalWeight   float64 `json:"total_weight"`
}

// StockStats is the global stock overview of a tenant.
type StockStats struct {
	TotalItems      int `json:"total_items"`
	TotalQuantity   int `json:"total_quantity"`
	LowStockAlerts  int `json:"low_stock_alerts"`
	CategoryCount   int `json:"category_count"`
	LowStockTrigger int `json:"low_stock_threshold"`
}

// UserWithdrawalStats aggregates withdrawals made by one user.
type UserWithdrawalStats struct {
	UserID          string  `json:"user_id"`
	WithdrawalCount int     `json:"withdrawal_count"`
	TotalQuantity   int     `json:"total_quantity"`
	TotalWeight     float64 `json:"total_weight"`
}
