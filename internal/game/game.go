package game

import (
	"fmt"

	"go-match/internal/scoring"
)

// Command is an input to the engine. Every state change goes through
// Session.Dispatch with one of these.
type Command interface {
	command()
}

// StartCommand begins the first level. It is ignored once a session runs.
type StartCommand struct{}

// ClickCommand turns the card at Index.
type ClickCommand struct {
	Index int
}

// RestartCommand discards the history and goes back to the first level.
type RestartCommand struct{}

type timerKind int

const (
	timerPreviewTick timerKind = iota
	timerPreviewEnd
	timerResolvePair
	timerAdvanceLevel
)

func (k timerKind) String() string {
	switch k {
	case timerPreviewTick:
		return "preview-tick"
	case timerPreviewEnd:
		return "preview-end"
	case timerResolvePair:
		return "resolve-pair"
	case timerAdvanceLevel:
		return "advance-level"
	default:
		return "unknown"
	}
}

// timerFired is dispatched by scheduled callbacks. The epoch is the one in
// force when the timer was registered.
type timerFired struct {
	epoch uint64
	id    int
	kind  timerKind
}

func (StartCommand) command()   {}
func (ClickCommand) command()   {}
func (RestartCommand) command() {}
func (timerFired) command()     {}

// EventKind identifies a state-changed notification.
type EventKind int

const (
	DeckDealt EventKind = iota
	PreviewTick
	PreviewEnded
	CardFlipped
	PairMatched
	PairMissed
	PairHidden
	LevelCompleted
	LevelAdvanced
	SessionCompleted
	SessionReset
)

var eventNames = map[EventKind]string{
	DeckDealt:        "deck-dealt",
	PreviewTick:      "preview-tick",
	PreviewEnded:     "preview-ended",
	CardFlipped:      "card-flipped",
	PairMatched:      "pair-matched",
	PairMissed:       "pair-missed",
	PairHidden:       "pair-hidden",
	LevelCompleted:   "level-completed",
	LevelAdvanced:    "level-advanced",
	SessionCompleted: "session-completed",
	SessionReset:     "session-reset",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is sent to subscribers after the engine state changed.
type Event struct {
	Kind    EventKind
	Level   int   // 1-based level the event belongs to
	Indices []int // cards involved, if any
	Stats   *scoring.LevelRunStats
	Summary *scoring.Summary
}

// Phase is the externally visible engine state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreviewing
	PhasePlayable
	PhaseResolvingPair
	PhaseLevelComplete
	PhaseAllLevelsComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreviewing:
		return "previewing"
	case PhasePlayable:
		return "playable"
	case PhaseResolvingPair:
		return "resolving-pair"
	case PhaseLevelComplete:
		return "level-complete"
	case PhaseAllLevelsComplete:
		return "all-levels-complete"
	default:
		return "unknown"
	}
}
