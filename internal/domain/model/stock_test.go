package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameDimension(t *testing.T) {
	tests := []struct {
		name string
		a, b *float64
		want bool
	}{
		{"both absent", nil, nil, true},
		{"both equal", Float(1.5), Float(1.5), true},
		{"different", Float(1.5), Float(2), false},
		{"one absent", Float(1.5), nil, false},
		{"other absent", nil, Float(1.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameDimension(tt.a, tt.b))
		})
	}
}

func TestStockItem_SameIdentity(t *testing.T) {
	base := StockItem{Name: "Moise 1.5m", Length: Float(1.5), TenantID: "t1"}

	tests := []struct {
		name  string
		other StockItem
		want  bool
	}{
		{"same piece, name case and spaces differ", StockItem{Name: "  moise 1.5M ", Length: Float(1.5), TenantID: "t1"}, true},
		{"other tenant", StockItem{Name: "Moise 1.5m", Length: Float(1.5), TenantID: "t2"}, false},
		{"other length", StockItem{Name: "Moise 1.5m", Length: Float(2), TenantID: "t1"}, false},
		{"length missing", StockItem{Name: "Moise 1.5m", TenantID: "t1"}, false},
		{"extra width", StockItem{Name: "Moise 1.5m", Length: Float(1.5), Width: Float(0.05), TenantID: "t1"}, false},
		{"quantity and weight are not identity", StockItem{Name: "Moise 1.5m", Length: Float(1.5), TenantID: "t1", Quantity: 9, Weight: Float(5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.SameIdentity(tt.other))
		})
	}
}

func TestStockItem_UnitWeight(t *testing.T) {
	assert.Equal(t, 0.0, StockItem{}.UnitWeight())
	assert.Equal(t, 5.4, StockItem{Weight: Float(5.4)}.UnitWeight())
}
