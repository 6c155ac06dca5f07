package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Requirements(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name       string
		plan       GeometricPlan
		categories map[Category]int
		ledgers    []LedgerNeed
	}{
		{
			name: "reference scenario",
			plan: GeometricPlan{Levels: 2, Bays: []float64{3, 1.5}, Frames: 3, DeckWidth: 0.73, DeckColumns: 1},
			categories: map[Category]int{
				CategoryBaseJack:  6,
				CategoryShim:      6,
				CategoryUpright:   12,
				CategoryTransom:   4,
				CategoryBrace:     2,
				CategoryDeck:      4,
				CategoryToeBoard:  4,
				CategoryGuardrail: 8,
			},
			ledgers: []LedgerNeed{{Length: 1.5, Count: 4}, {Length: 3, Count: 4}},
		},
		{
			name: "single bay has no brace",
			plan: GeometricPlan{Levels: 3, Bays: []float64{2}, Frames: 2, DeckWidth: 0.73, DeckColumns: 2},
			categories: map[Category]int{
				CategoryBaseJack:  4,
				CategoryShim:      4,
				CategoryUpright:   12,
				CategoryTransom:   3,
				CategoryBrace:     0,
				CategoryDeck:      6,
				CategoryToeBoard:  6,
				CategoryGuardrail: 6,
			},
			ledgers: []LedgerNeed{{Length: 2, Count: 6}},
		},
		{
			name: "equal bays share one ledger bucket",
			plan: GeometricPlan{Levels: 1, Bays: []float64{3, 3, 3}, Frames: 4, DeckWidth: 0.61, DeckColumns: 1},
			categories: map[Category]int{
				CategoryBaseJack: 8,
				CategoryUpright:  8,
				CategoryBrace:    1,
			},
			ledgers: []LedgerNeed{{Length: 3, Count: 6}},
		},
		{
			name: "off-catalog bay is broken down per piece",
			plan: GeometricPlan{Levels: 1, Bays: []float64{4}, Frames: 2, DeckWidth: 0.73, DeckColumns: 1},
			categories: map[Category]int{
				CategoryTransom: 1,
			},
			ledgers: []LedgerNeed{{Length: 1, Count: 2}, {Length: 3, Count: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := engine.Requirements(tt.plan)
			for c, want := range tt.categories {
				assert.Equal(t, want, req.Count(c), "category %s", c)
			}
			assert.Equal(t, tt.ledgers, req.Ledgers)
		})
	}
}

func TestEngine_Requirements_CategoryOrder(t *testing.T) {
	req := NewEngine().Requirements(GeometricPlan{Levels: 1, Bays: []float64{2}, Frames: 2, DeckColumns: 1})

	order := make([]Category, 0, len(req.Categories))
	for _, n := range req.Categories {
		order = append(order, n.Category)
	}
	assert.Equal(t, []Category{
		CategoryBaseJack, CategoryShim, CategoryUpright, CategoryTransom,
		CategoryBrace, CategoryDeck, CategoryToeBoard, CategoryGuardrail,
	}, order)
}

func TestEngine_Requirements_Deterministic(t *testing.T) {
	engine := NewEngine()
	plan, err := engine.Plan(7.3, 11.37, 1.4)
	require.NoError(t, err)

	first := engine.Requirements(plan)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, engine.Requirements(plan))
	}
}

func TestEngine_Breakdown(t *testing.T) {
	engine := NewEngine()
	ledgers := DefaultLedgerLengths

	assert.Equal(t, []float64{2.5}, engine.breakdown(2.5, ledgers, 3, DefaultResolution))
	assert.Equal(t, []float64{1.5}, engine.breakdown(1.14, ledgers, 3, DefaultResolution))
	assert.Equal(t, []float64{2, 2}, engine.breakdown(3.01, []float64{2}, 2, DefaultResolution))

	// an overage window too narrow for any total falls back to longest pieces
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, engine.breakdown(3.01, []float64{2}, 0.5, DefaultResolution))
}

func TestRequirementMap_Lookups(t *testing.T) {
	req := RequirementMap{
		Categories: []CategoryNeed{{CategoryDeck, 3}},
		Ledgers:    []LedgerNeed{{Length: 1.5, Count: 4}},
	}

	assert.Equal(t, 3, req.Count(CategoryDeck))
	assert.Equal(t, 0, req.Count(CategoryShim))
	assert.Equal(t, 4, req.LedgerCount(1.5))
	assert.Equal(t, 4, req.LedgerCount(1.5000000001))
	assert.Equal(t, 0, req.LedgerCount(2))
}
