// Package deck builds the shuffled card sets each level is played with.
package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// ErrPoolTooSmall is returned when a level asks for more pairs than there are
// distinct icons.
var ErrPoolTooSmall = errors.New("icon pool smaller than pair count")

// DefaultIcons is the built-in symbol pool.
var DefaultIcons = []string{
	"🐶", "🐱", "🦊", "🐻", "🐼", "🐨", "🐯", "🦁", "🐮", "🐷",
	"🐵", "🐸", "🐙", "🦄", "🐝", "🐞", "🐢", "🐬", "🐳", "🐔",
	"🍎", "🍌", "🍇", "🍓", "🍑", "🍍", "🥝", "🍉", "🍒", "🍋",
}

// Card is one tile on the board.
type Card struct {
	UID     string
	Symbol  string
	Matched bool
	FaceUp  bool
}

// Deck is the ordered card layout of a level.
type Deck []Card

// AllMatched reports whether every card has been matched. An empty deck is
// never complete.
func (d Deck) AllMatched() bool {
	if len(d) == 0 {
		return false
	}
	for _, c := range d {
		if !c.Matched {
			return false
		}
	}
	return true
}

// FaceDown turns every card face-down.
func (d Deck) FaceDown() {
	for i := range d {
		d[i].FaceUp = false
	}
}

// Symbols returns the symbol at each position.
func (d Deck) Symbols() []string {
	out := make([]string, len(d))
	for i, c := range d {
		out[i] = c.Symbol
	}
	return out
}

// Clone returns an independent copy.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}

// Generator deals decks from an icon pool.
type Generator struct {
	Icons []string
	Rand  *rand.Rand
	// NewID returns a fresh card identifier. Defaults to a random UUID.
	NewID func() string
}

// NewGenerator returns a Generator over icons using r for every random
// choice.
func NewGenerator(icons []string, r *rand.Rand) *Generator {
	return &Generator{
		Icons: icons,
		Rand:  r,
		NewID: uuid.NewString,
	}
}

// Generate deals 2*pairCount face-up cards, two per symbol, in random order.
func (g *Generator) Generate(pairCount int) (Deck, error) {
	if pairCount < 1 {
		return nil, fmt.Errorf("pair count %d: must be at least 1", pairCount)
	}
	if pairCount > len(g.Icons) {
		return nil, fmt.Errorf("%w: %d pairs, %d icons", ErrPoolTooSmall, pairCount, len(g.Icons))
	}

	icons := make([]string, len(g.Icons))
	copy(icons, g.Icons)
	g.shuffle(len(icons), func(i, j int) {
		icons[i], icons[j] = icons[j], icons[i]
	})

	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	cards := make(Deck, 0, pairCount*2)
	for _, icon := range icons[:pairCount] {
		cards = append(cards,
			Card{UID: newID(), Symbol: icon, FaceUp: true},
			Card{UID: newID(), Symbol: icon, FaceUp: true},
		)
	}

	g.shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards, nil
}

func (g *Generator) shuffle(n int, swap func(i, j int)) {
	if g.Rand != nil {
		g.Rand.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}
