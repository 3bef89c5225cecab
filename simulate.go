package main

import (
	"errors"
	"time"

	"go-match/internal/clock"
	"go-match/internal/deck"
	"go-match/internal/game"
	"go-match/internal/scoring"
)

// simStep is how far the virtual clock moves while the bot waits.
const simStep = 50 * time.Millisecond

var errSimulationStalled = errors.New("simulation did not finish")

// botOptions tune the simulated player.
type botOptions struct {
	Misses   int           // deliberate misses at the start of each level
	Think    time.Duration // pause before each flip
	MaxSteps int
}

// runSimulation plays sess to the end on clk. The bot remembers every card it
// saw during the preview, so after its deliberate misses it never fails.
func runSimulation(sess *game.Session, clk *clock.Manual, opts botOptions) (scoring.Summary, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 1_000_000
	}

	level, missesLeft := 0, 0
	sess.Start()

	for step := 0; step < opts.MaxSteps; step++ {
		snap := sess.Snapshot()

		switch snap.Phase {
		case game.PhaseAllLevelsComplete:
			sum, _ := sess.Summary()
			return sum, nil
		case game.PhasePlayable:
			if snap.Level != level {
				level, missesLeft = snap.Level, opts.Misses
			}
			a, b, miss := choosePair(snap.Cards, missesLeft > 0)
			if miss {
				missesLeft--
			}
			clk.Advance(opts.Think)
			sess.Click(a)
			clk.Advance(opts.Think)
			sess.Click(b)
		default:
			clk.Advance(simStep)
		}
	}
	return scoring.Summary{}, errSimulationStalled
}

// choosePair picks two unmatched cards. With wantMiss it picks two different
// symbols if the board still has them.
func choosePair(cards deck.Deck, wantMiss bool) (a, b int, miss bool) {
	positions := map[string][]int{}
	var order []string
	for i, c := range cards {
		if c.Matched {
			continue
		}
		if _, seen := positions[c.Symbol]; !seen {
			order = append(order, c.Symbol)
		}
		positions[c.Symbol] = append(positions[c.Symbol], i)
	}

	if wantMiss && len(order) >= 2 {
		return positions[order[0]][0], positions[order[1]][0], true
	}
	if len(order) == 0 {
		return 0, 0, false
	}
	pair := positions[order[0]]
	return pair[0], pair[1], false
}
