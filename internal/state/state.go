package state

import (
	"context"
	"time"

	"go-match/internal/clock"
	"go-match/internal/deck"
	"go-match/internal/scoring"

	"github.com/looplab/fsm"
)

// FSM state names.
const (
	StateStart         = "start"
	StatePreviewing    = "previewing"
	StatePlayable      = "playable"
	StateResolvingPair = "resolvingPair"
	StateEvaluating    = "evaluating"
	StateLevelComplete = "levelComplete"
)

// Outcome is the result of comparing two revealed cards.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMatch
	OutcomeMiss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMiss:
		return "miss"
	default:
		return "none"
	}
}

// State is one level being played: its deck, the selection in progress and
// the miss counter. A fresh State is built for every level start.
type State struct {
	Level     int // 1-based position in the catalog
	Deck      deck.Deck
	Open      []int   // indices revealed and not yet resolved, at most two
	Pending   Outcome // outcome of the most recent pair
	LastPair  [2]int  // the last pair that went through resolution
	MissCount int
	StartedAt time.Time
	Result    *scoring.LevelRunStats
	FSM       *fsm.FSM

	clock clock.Clock
}

// NewState wraps a freshly dealt deck for the given level.
func NewState(level int, d deck.Deck, clk clock.Clock) *State {
	s := &State{
		Level:    level,
		Deck:     d,
		LastPair: [2]int{-1, -1},
		clock:    clk,
	}

	s.FSM = fsm.NewFSM(
		StateStart,
		getStateTransitions(),
		getStateCallbacks(s),
	)

	return s
}

// Preview shows the whole deck face-up.
func (s *State) Preview() error {
	return s.FSM.Event(context.Background(), "preview")
}

// Reveal ends the preview: cards go face-down and the level clock starts.
func (s *State) Reveal() error {
	return s.FSM.Event(context.Background(), "reveal")
}

// Click flips the card at index if the level is accepting input and the card
// can be turned. It reports whether the card was flipped. A second flipped
// card moves the level into resolvingPair.
func (s *State) Click(index int) bool {
	if !s.AcceptsInput() || !s.CanFlip(index) {
		return false
	}

	s.Deck[index].FaceUp = true
	s.Open = append(s.Open, index)
	if len(s.Open) == 2 {
		_ = s.FSM.Event(context.Background(), "pick")
	}
	return true
}

// Resolve applies the pending outcome and re-evaluates the level.
func (s *State) Resolve() error {
	return s.FSM.Event(context.Background(), "resolve")
}

// Current returns the FSM state name.
func (s *State) Current() string {
	return s.FSM.Current()
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "preview", Src: []string{StateStart}, Dst: StatePreviewing},
		{Name: "reveal", Src: []string{StatePreviewing}, Dst: StatePlayable},

		// Second card revealed
		{Name: "pick", Src: []string{StatePlayable}, Dst: StateResolvingPair},
		{Name: "resolve", Src: []string{StateResolvingPair}, Dst: StateEvaluating},

		// Evaluation loop
		{Name: "wait", Src: []string{StateEvaluating}, Dst: StatePlayable},
		{Name: "complete", Src: []string{StateEvaluating}, Dst: StateLevelComplete},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_" + StatePreviewing: func(ctx context.Context, e *fsm.Event) {
			for i := range s.Deck {
				s.Deck[i].FaceUp = true
			}
		},
		"enter_" + StatePlayable: func(ctx context.Context, e *fsm.Event) {
			if e.Src != StatePreviewing {
				return
			}
			s.Deck.FaceDown()
			s.StartedAt = s.clock.Now()
		},
		"enter_" + StateResolvingPair: func(ctx context.Context, e *fsm.Event) {
			first, second := s.Open[0], s.Open[1]
			s.LastPair = [2]int{first, second}
			if s.Deck[first].Symbol == s.Deck[second].Symbol {
				s.Pending = OutcomeMatch
				return
			}
			s.Pending = OutcomeMiss
			s.MissCount++
		},
		"enter_" + StateEvaluating: func(ctx context.Context, e *fsm.Event) {
			for _, idx := range s.Open {
				switch s.Pending {
				case OutcomeMatch:
					s.Deck[idx].Matched = true
				case OutcomeMiss:
					s.Deck[idx].FaceUp = false
				}
			}
			s.Open = nil

			if s.Deck.AllMatched() {
				e.FSM.Event(ctx, "complete")
				return
			}
			e.FSM.Event(ctx, "wait")
		},
		"enter_" + StateLevelComplete: func(ctx context.Context, e *fsm.Event) {
			elapsed := 0.0
			if !s.StartedAt.IsZero() {
				elapsed = s.clock.Now().Sub(s.StartedAt).Seconds()
			}
			if elapsed < 0 {
				elapsed = 0
			}
			s.Result = &scoring.LevelRunStats{
				LevelNumber:    s.Level,
				ElapsedSeconds: elapsed,
				MissCount:      s.MissCount,
			}
		},
	}
}
