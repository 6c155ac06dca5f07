// Package scaffold implements the scaffolding bill-of-materials engine:
// length decomposition, structure planning, requirement calculation and
// inventory matching over a stock snapshot.
package scaffold

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultLevelHeight is the height of one full scaffold level.
	DefaultLevelHeight = 2.0
	// DefaultResolution is the number of DP units per length unit.
	DefaultResolution = 100
)

var (
	// DefaultLedgerLengths are the standard ledger lengths, ascending.
	DefaultLedgerLengths = []float64{0.75, 1, 1.5, 2, 2.5, 3}
	// DefaultDeckWidths are the standard deck panel widths, ascending.
	DefaultDeckWidths = []float64{0.32, 0.61, 0.73}
)

var (
	// ErrEmptyCatalog is returned when a catalog has no ledger lengths or deck widths.
	ErrEmptyCatalog = errors.New("catalog has no ledger lengths or deck widths")
	// ErrInvalidCatalog is returned when a catalog holds non-positive values.
	ErrInvalidCatalog = errors.New("catalog values must be positive")
)

// Catalog holds the modular sizes the engine plans with.
// A Catalog is immutable: accessors return copies.
type Catalog struct {
	levelHeight   float64
	ledgerLengths []float64
	deckWidths    []float64
	resolution    int
}

// DefaultCatalog returns the standard catalog.
func DefaultCatalog() Catalog {
	c, _ := NewCatalog(DefaultLevelHeight, DefaultLedgerLengths, DefaultDeckWidths, DefaultResolution)
	return c
}

// NewCatalog validates and normalises the given sizes. Lengths and widths are
// sorted ascending and deduplicated at the catalog resolution.
func NewCatalog(levelHeight float64, ledgerLengths, deckWidths []float64, resolution int) (Catalog, error) {
	if len(ledgerLengths) == 0 || len(deckWidths) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}
	if !positive(levelHeight) || resolution <= 0 {
		return Catalog{}, ErrInvalidCatalog
	}

	ledgers, err := normalizeSizes(ledgerLengths, resolution)
	if err != nil {
		return Catalog{}, fmt.Errorf("ledger lengths: %w", err)
	}
	decks, err := normalizeSizes(deckWidths, resolution)
	if err != nil {
		return Catalog{}, fmt.Errorf("deck widths: %w", err)
	}

	return Catalog{
		levelHeight:   levelHeight,
		ledgerLengths: ledgers,
		deckWidths:    decks,
		resolution:    resolution,
	}, nil
}

func normalizeSizes(values []float64, resolution int) ([]float64, error) {
	out := make([]float64, 0, len(values))
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if !positive(v) || scale(v, resolution) <= 0 {
			return nil, ErrInvalidCatalog
		}
		key := scale(v, resolution)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// IsZero reports whether the catalog was never initialised.
func (c Catalog) IsZero() bool {
	return len(c.ledgerLengths) == 0 || len(c.deckWidths) == 0
}

// LevelHeight returns the standard level height.
func (c Catalog) LevelHeight() float64 { return c.levelHeight }

// Resolution returns the DP resolution in units per length unit.
func (c Catalog) Resolution() int { return c.resolution }

// LedgerLengths returns the ascending ledger lengths.
func (c Catalog) LedgerLengths() []float64 {
	return append([]float64(nil), c.ledgerLengths...)
}

// DeckWidths returns the ascending deck widths.
func (c Catalog) DeckWidths() []float64 {
	return append([]float64(nil), c.deckWidths...)
}

// MaxLedger returns the longest ledger length.
func (c Catalog) MaxLedger() float64 {
	return c.ledgerLengths[len(c.ledgerLengths)-1]
}

// Key returns a stable textual identity of the catalog, used in cache keys.
func (c Catalog) Key() string {
	var b strings.Builder
	b.WriteString(formatLength(c.levelHeight))
	b.WriteByte('|')
	for i, l := range c.ledgerLengths {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatLength(l))
	}
	b.WriteByte('|')
	for i, w := range c.deckWidths {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatLength(w))
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(c.resolution))
	return b.String()
}

func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
