package scaffold

import (
	"math"
	"sort"
)

// CategoryNeed is the number of pieces required for one category.
type CategoryNeed struct {
	Category Category `json:"category" example:"upright"`
	Count    int      `json:"count" example:"12"`
}

// LedgerNeed is the number of ledgers required at one exact length.
type LedgerNeed struct {
	Length float64 `json:"length" example:"1.5"`
	Count  int     `json:"count" example:"4"`
}

// RequirementMap lists the pieces a plan needs. Categories follow the fixed
// allocation order and ledgers are sorted by ascending length.
type RequirementMap struct {
	Categories []CategoryNeed `json:"categories"`
	Ledgers    []LedgerNeed   `json:"ledgers"`
}

// Count returns the need for category c.
func (r RequirementMap) Count(c Category) int {
	for _, n := range r.Categories {
		if n.Category == c {
			return n.Count
		}
	}
	return 0
}

// LedgerCount returns the ledger need at length l.
func (r RequirementMap) LedgerCount(l float64) int {
	for _, n := range r.Ledgers {
		if math.Abs(n.Length-l) < lengthEpsilon {
			return n.Count
		}
	}
	return 0
}

// Requirements derives piece counts from a plan with the fixed structural
// multipliers. Two ledgers (front and back) are needed per bay piece and level.
func (e *Engine) Requirements(plan GeometricPlan) RequirementMap {
	frames := plan.Frames
	bays := plan.BayCount()
	levels := plan.Levels
	deck := bays * levels * plan.DeckColumns

	categories := []CategoryNeed{
		{CategoryBaseJack, frames * 2},
		{CategoryShim, frames * 2},
		{CategoryUpright, frames * 2 * levels},
		{CategoryTransom, bays * levels},
		{CategoryBrace, (bays / 2) * levels},
		{CategoryDeck, deck},
		{CategoryToeBoard, deck},
		{CategoryGuardrail, bays * levels * 2},
	}

	return RequirementMap{
		Categories: categories,
		Ledgers:    e.ledgerNeeds(plan.Bays, levels),
	}
}

func (e *Engine) ledgerNeeds(bays []float64, levels int) []LedgerNeed {
	res := e.catalog.resolution
	ledgers := e.catalog.ledgerLengths
	longest := e.catalog.MaxLedger()

	// keyed by scaled length so that float noise never splits a bucket
	counts := make(map[int]int)
	lengths := make(map[int]float64)
	for _, bay := range bays {
		for _, piece := range e.breakdown(bay, ledgers, longest, res) {
			key := scale(piece, res)
			counts[key] += 2 * levels
			lengths[key] = piece
		}
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	needs := make([]LedgerNeed, 0, len(keys))
	for _, k := range keys {
		needs = append(needs, LedgerNeed{Length: lengths[k], Count: counts[k]})
	}
	return needs
}

// breakdown splits one bay into ledger pieces: exact, then with overage,
// then as many longest ledgers as it takes.
func (e *Engine) breakdown(bay float64, ledgers []float64, longest float64, res int) []float64 {
	if combo, ok := MinimalExact(bay, ledgers, res); ok {
		return combo
	}
	if combo, ok := MinimalWithOverage(bay, ledgers, longest, res); ok {
		return combo
	}
	n := int(math.Ceil(bay / longest))
	combo := make([]float64, n)
	for i := range combo {
		combo[i] = longest
	}
	return combo
}
