package scaffold

import (
	"math"
)

// lengthEpsilon is the length below which a remainder is treated as zero.
const lengthEpsilon = 1e-6

// GeometricPlan is the discrete layout of a scaffold.
//
// @Description Levels, bays and deck layout derived from the requested dimensions
type GeometricPlan struct {
	Levels       int       `json:"levels" example:"2"`
	LevelHeights []float64 `json:"level_heights"`
	Bays         []float64 `json:"bays"`
	Frames       int       `json:"frames" example:"3"`
	DeckWidth    float64   `json:"deck_width" example:"0.73"`
	DeckColumns  int       `json:"deck_columns" example:"1"`
}

// BayCount returns the number of bays.
func (p GeometricPlan) BayCount() int {
	return len(p.Bays)
}

// TotalLength returns the summed bay length.
func (p GeometricPlan) TotalLength() float64 {
	var sum float64
	for _, b := range p.Bays {
		sum += b
	}
	return roundTo(sum, 6)
}

// Plan turns raw dimensions into a GeometricPlan.
func (e *Engine) Plan(height, length, width float64) (GeometricPlan, error) {
	if err := e.checkDimensions(height, length, width); err != nil {
		return GeometricPlan{}, err
	}
	if e.catalog.IsZero() {
		return GeometricPlan{}, ErrEmptyCatalog
	}

	levels := planLevels(height, e.catalog.levelHeight)
	bays := planBays(length, e.catalog.ledgerLengths, e.catalog.resolution)
	deck := chooseDeckWidth(width, e.catalog.deckWidths)

	return GeometricPlan{
		Levels:       len(levels),
		LevelHeights: levels,
		Bays:         bays,
		Frames:       len(bays) + 1,
		DeckWidth:    deck,
		DeckColumns:  deckColumns(width, deck),
	}, nil
}

// planLevels stacks full levels and appends the partial remainder, if any.
func planLevels(height, levelHeight float64) []float64 {
	full := int(math.Floor(height / levelHeight))
	rest := roundTo(height-float64(full)*levelHeight, 3)

	levels := make([]float64, 0, full+1)
	for i := 0; i < full; i++ {
		levels = append(levels, levelHeight)
	}
	if rest > 0 {
		levels = append(levels, rest)
	}
	return levels
}

// planBays cuts length into catalog bays.
//
// This is a deliberate approximation, not a global minimum: while more than
// one maximal bay remains it greedily takes the longest bay that fits, and
// only the closing segment (at most one maximal bay long) is optimised with
// the exact and then the overage decomposition.
func planBays(length float64, ledgers []float64, resolution int) []float64 {
	longest := ledgers[len(ledgers)-1]
	bays := make([]float64, 0, int(length/longest)+2)

	remaining := roundTo(length, 6)
	for remaining > lengthEpsilon {
		if remaining <= longest {
			if combo, ok := MinimalExact(remaining, ledgers, resolution); ok {
				return append(bays, combo...)
			}
			if combo, ok := MinimalWithOverage(remaining, ledgers, longest, resolution); ok {
				return append(bays, combo...)
			}
		}
		piece := largestNotAbove(remaining, ledgers)
		bays = append(bays, piece)
		remaining = roundTo(math.Max(0, remaining-piece), 6)
	}
	return bays
}

// chooseDeckWidth returns the exact catalog width, else the widest not above
// width, else the narrowest.
func chooseDeckWidth(width float64, decks []float64) float64 {
	for _, d := range decks {
		if math.Abs(d-width) < 1e-9 {
			return d
		}
	}
	return largestNotAbove(width, decks)
}

// deckColumns is the number of deck panels side by side across width. An
// exact half rounds to even: 2.5 panels give 2 columns.
func deckColumns(width, deck float64) int {
	return max(1, int(math.RoundToEven(width/deck)))
}

// largestNotAbove returns the largest size <= v, or the smallest size when
// none fits. sizes must be ascending.
func largestNotAbove(v float64, sizes []float64) float64 {
	chosen := sizes[0]
	for _, s := range sizes {
		if s <= v {
			chosen = s
		}
	}
	return chosen
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
