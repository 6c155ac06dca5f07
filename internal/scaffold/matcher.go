package scaffold

import (
	"fmt"
	"math"
	"sort"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// AllocationLine is a quantity drawn from one stock item.
//
// @Description Stock item and quantity used by the allocation
type AllocationLine struct {
	StockItemID string   `json:"stock_item_id"`
	Name        string   `json:"name" example:"Moise 1.5m"`
	Category    Category `json:"category" example:"ledger"`
	Length      *float64 `json:"length,omitempty" example:"1.5"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Weight      *float64 `json:"weight,omitempty" example:"5.4"`
	Quantity    int      `json:"quantity" example:"4"`
	Note        string   `json:"note,omitempty" example:"ledger target 1.5"`
}

// AllocationResult is the outcome of matching requirements against stock.
type AllocationResult struct {
	Lines       []AllocationLine `json:"lines"`
	TotalWeight float64          `json:"total_weight" example:"182.4"`
	Shortfalls  []string         `json:"shortfalls"`
}

// matchItem is a stock item with its resolved category and the quantity
// still available during one matching run.
type matchItem struct {
	item      *model.StockItem
	category  Category
	available int
}

// Match allocates stock to the requirements. It never mutates stock and
// returns the same result for the same inputs. A stock item is never drawn
// beyond its quantity, even when several requirements compete for it.
func (e *Engine) Match(req RequirementMap, stock []model.StockItem) AllocationResult {
	items := make([]*matchItem, len(stock))
	for i := range stock {
		items[i] = &matchItem{
			item:      &stock[i],
			category:  ResolveCategory(stock[i].Category, stock[i].Name),
			available: max(0, stock[i].Quantity),
		}
	}

	result := AllocationResult{
		Lines:      []AllocationLine{},
		Shortfalls: []string{},
	}

	for _, need := range req.Categories {
		if need.Count <= 0 {
			continue
		}
		candidates := byCategory(items, need.Category)
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.available != b.available {
				return a.available > b.available
			}
			return a.item.Length == nil && b.item.Length != nil
		})
		missing := draw(&result, candidates, need.Count, "")
		if missing > 0 {
			result.Shortfalls = append(result.Shortfalls,
				fmt.Sprintf("%s: needed %d, missing %d", need.Category, need.Count, missing))
		}
	}

	for _, need := range req.Ledgers {
		if need.Count <= 0 {
			continue
		}
		candidates := ledgerCandidates(items, need.Length)
		missing := draw(&result, candidates, need.Count, "ledger target "+formatLength(need.Length))
		if missing > 0 {
			result.Shortfalls = append(result.Shortfalls,
				fmt.Sprintf("ledger %s: needed %d, missing %d", formatLength(need.Length), need.Count, missing))
		}
	}

	result.TotalWeight = totalWeight(result.Lines)
	return result
}

func byCategory(items []*matchItem, c Category) []*matchItem {
	var out []*matchItem
	for _, it := range items {
		if it.category == c {
			out = append(out, it)
		}
	}
	return out
}

// ledgerCandidates prefers ledgers of exactly the target length. When none
// has stock left, every ledger is a candidate, closest length first.
func ledgerCandidates(items []*matchItem, target float64) []*matchItem {
	ledgers := byCategory(items, CategoryLedger)

	var exact []*matchItem
	for _, it := range ledgers {
		if it.available > 0 && it.item.Length != nil && math.Abs(*it.item.Length-target) < lengthEpsilon {
			exact = append(exact, it)
		}
	}
	if len(exact) > 0 {
		sort.SliceStable(exact, func(i, j int) bool {
			return exact[i].available > exact[j].available
		})
		return exact
	}

	distance := func(it *matchItem) float64 {
		var l float64
		if it.item.Length != nil {
			l = *it.item.Length
		}
		return math.Abs(l - target)
	}
	sort.SliceStable(ledgers, func(i, j int) bool {
		di, dj := distance(ledgers[i]), distance(ledgers[j])
		if math.Abs(di-dj) >= lengthEpsilon {
			return di < dj
		}
		return ledgers[i].available > ledgers[j].available
	})
	return ledgers
}

// draw takes from candidates in order until need is met and returns what is
// still missing.
func draw(result *AllocationResult, candidates []*matchItem, need int, note string) int {
	remaining := need
	for _, it := range candidates {
		if remaining <= 0 {
			break
		}
		take := min(it.available, remaining)
		if take <= 0 {
			continue
		}
		it.available -= take
		remaining -= take
		result.Lines = append(result.Lines, AllocationLine{
			StockItemID: it.item.ID,
			Name:        it.item.Name,
			Category:    it.category,
			Length:      it.item.Length,
			Width:       it.item.Width,
			Height:      it.item.Height,
			Weight:      it.item.Weight,
			Quantity:    take,
			Note:        note,
		})
	}
	return remaining
}

// LineWeight returns quantity times unit weight, missing weight counting as zero.
func LineWeight(quantity int, weight *float64) decimal.Decimal {
	if weight == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*weight).Mul(decimal.NewFromInt(int64(quantity)))
}

func totalWeight(lines []AllocationLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineWeight(l.Quantity, l.Weight))
	}
	f, _ := total.Round(3).Float64()
	return f
}
