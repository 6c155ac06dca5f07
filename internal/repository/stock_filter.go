package repository

import (
	"sort"
	"strings"

	"github.com/guttosm/scaffold-service/internal/domain/model"
)

// DefaultSearchLimit caps a search when the caller sets no limit.
const DefaultSearchLimit = 100

func normalizeFilter(f model.StockFilter) model.StockFilter {
	f.Query = strings.ToLower(strings.TrimSpace(f.Query))
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultSearchLimit
	}
	return f
}

// matchesFilter applies a normalised filter to one item in memory.
func matchesFilter(item model.StockItem, tenantID string, f model.StockFilter) bool {
	if tenantID != "" && item.TenantID != tenantID {
		return false
	}
	name := strings.ToLower(item.Name)
	category := strings.ToLower(item.Category)
	if f.Query != "" && !strings.Contains(name, f.Query) && !strings.Contains(category, f.Query) {
		return false
	}
	if f.Category != "" && !strings.Contains(category, f.Category) {
		return false
	}
	if f.MinStock != nil && item.Quantity < *f.MinStock {
		return false
	}
	if f.MaxStock != nil && item.Quantity > *f.MaxStock {
		return false
	}
	return true
}

func paginate(items []model.StockItem, skip, limit int) []model.StockItem {
	if skip >= len(items) {
		return []model.StockItem{}
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

// sortItems orders items by name, then ID, the listing order of every store.
func sortItems(items []model.StockItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}

func cloneItem(item model.StockItem) model.StockItem {
	out := item
	out.Length = cloneFloat(item.Length)
	out.Width = cloneFloat(item.Width)
	out.Height = cloneFloat(item.Height)
	out.Weight = cloneFloat(item.Weight)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
