package game

import (
	"errors"
	"fmt"
	"time"

	"go-match/internal/deck"
)

var (
	// ErrEmptyCatalog is returned when no levels are configured.
	ErrEmptyCatalog = errors.New("level catalog is empty")
	// ErrInvalidLevel is returned for a level with no pairs or a negative preview.
	ErrInvalidLevel = errors.New("invalid level definition")
)

// LevelDefinition describes one level: how many pairs are dealt and how long
// the deck is shown before play.
type LevelDefinition struct {
	PairCount int
	Preview   time.Duration
}

// DefaultLevels is the built-in three level progression.
func DefaultLevels() []LevelDefinition {
	return []LevelDefinition{
		{PairCount: 3, Preview: 5 * time.Second},
		{PairCount: 10, Preview: 8 * time.Second},
		{PairCount: 15, Preview: 10 * time.Second},
	}
}

// DefaultCatalog is the stock three-level catalog over the built-in icons.
func DefaultCatalog() Catalog {
	cat, err := NewCatalog(DefaultLevels(), len(deck.DefaultIcons))
	if err != nil {
		panic(err)
	}
	return cat
}

// Catalog is the ordered, immutable list of levels a session plays through.
type Catalog struct {
	levels []LevelDefinition
}

// NewCatalog validates levels against an icon pool of poolSize symbols.
func NewCatalog(levels []LevelDefinition, poolSize int) (Catalog, error) {
	if len(levels) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}
	for i, lvl := range levels {
		if lvl.PairCount < 1 {
			return Catalog{}, fmt.Errorf("%w: level %d has %d pairs", ErrInvalidLevel, i+1, lvl.PairCount)
		}
		if lvl.Preview < 0 {
			return Catalog{}, fmt.Errorf("%w: level %d has negative preview %s", ErrInvalidLevel, i+1, lvl.Preview)
		}
		if lvl.PairCount > poolSize {
			return Catalog{}, fmt.Errorf("%w: level %d needs %d icons, pool has %d",
				deck.ErrPoolTooSmall, i+1, lvl.PairCount, poolSize)
		}
	}

	c := Catalog{levels: make([]LevelDefinition, len(levels))}
	copy(c.levels, levels)
	return c, nil
}

// Len returns the number of levels.
func (c Catalog) Len() int {
	return len(c.levels)
}

// Level returns the definition at the zero-based index i.
func (c Catalog) Level(i int) LevelDefinition {
	return c.levels[i]
}

// Levels returns a copy of every definition in order.
func (c Catalog) Levels() []LevelDefinition {
	out := make([]LevelDefinition, len(c.levels))
	copy(out, c.levels)
	return out
}

// TotalPairs sums the pair counts of every level.
func (c Catalog) TotalPairs() int {
	total := 0
	for _, lvl := range c.levels {
		total += lvl.PairCount
	}
	return total
}

// MaxPairs returns the largest pair count in the catalog.
func (c Catalog) MaxPairs() int {
	most := 0
	for _, lvl := range c.levels {
		most = max(most, lvl.PairCount)
	}
	return most
}

// Columns is the grid width a board of pairCount pairs is laid out with.
func Columns(pairCount int) int {
	if pairCount == 3 {
		return 3
	}
	return 5
}
