package scaffold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name        string
		levelHeight float64
		ledgers     []float64
		decks       []float64
		resolution  int
		expectedErr error
		validate    func(*testing.T, Catalog)
	}{
		{
			name:        "sorts and deduplicates",
			levelHeight: 2,
			ledgers:     []float64{3, 1, 1.0000001, 2},
			decks:       []float64{0.73, 0.32},
			resolution:  100,
			validate: func(t *testing.T, c Catalog) {
				assert.Equal(t, []float64{1, 2, 3}, c.LedgerLengths())
				assert.Equal(t, []float64{0.32, 0.73}, c.DeckWidths())
				assert.Equal(t, 3.0, c.MaxLedger())
			},
		},
		{
			name:        "empty ledgers",
			levelHeight: 2,
			decks:       []float64{0.73},
			resolution:  100,
			expectedErr: ErrEmptyCatalog,
		},
		{
			name:        "empty decks",
			levelHeight: 2,
			ledgers:     []float64{1},
			resolution:  100,
			expectedErr: ErrEmptyCatalog,
		},
		{
			name:        "negative ledger",
			levelHeight: 2,
			ledgers:     []float64{-1, 2},
			decks:       []float64{0.73},
			resolution:  100,
			expectedErr: ErrInvalidCatalog,
		},
		{
			name:        "ledger below resolution",
			levelHeight: 2,
			ledgers:     []float64{0.001},
			decks:       []float64{0.73},
			resolution:  100,
			expectedErr: ErrInvalidCatalog,
		},
		{
			name:        "zero level height",
			ledgers:     []float64{1},
			decks:       []float64{0.73},
			resolution:  100,
			expectedErr: ErrInvalidCatalog,
		},
		{
			name:        "infinite deck",
			levelHeight: 2,
			ledgers:     []float64{1},
			decks:       []float64{math.Inf(1)},
			resolution:  100,
			expectedErr: ErrInvalidCatalog,
		},
		{
			name:        "zero resolution",
			levelHeight: 2,
			ledgers:     []float64{1},
			decks:       []float64{0.73},
			expectedErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.levelHeight, tt.ledgers, tt.decks, tt.resolution)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.True(t, c.IsZero())
				return
			}
			assert.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, c)
			}
		})
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	c := DefaultCatalog()

	ledgers := c.LedgerLengths()
	ledgers[0] = 42
	assert.Equal(t, 0.75, c.LedgerLengths()[0])

	input := []float64{1, 2}
	c2, err := NewCatalog(2, input, []float64{0.5}, 100)
	assert.NoError(t, err)
	input[0] = 9
	assert.Equal(t, []float64{1, 2}, c2.LedgerLengths())
}

func TestCatalog_Key(t *testing.T) {
	assert.Equal(t, "2|0.75,1,1.5,2,2.5,3|0.32,0.61,0.73|100", DefaultCatalog().Key())

	other, err := NewCatalog(2, []float64{1, 2}, []float64{0.73}, 100)
	assert.NoError(t, err)
	assert.NotEqual(t, DefaultCatalog().Key(), other.Key())
}
