package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go-match/internal/clock"
	"go-match/internal/deck"
	"go-match/internal/scoring"
	"go-match/internal/state"
)

// Delays are the fixed pauses between automatic transitions.
type Delays struct {
	Match   time.Duration // pair shown before it is marked matched
	Miss    time.Duration // wrong pair shown before it flips back
	Advance time.Duration // pause between a finished level and the next one
	Tick    time.Duration // preview countdown refresh
}

// DefaultDelays returns the stock timings.
func DefaultDelays() Delays {
	return Delays{
		Match:   350 * time.Millisecond,
		Miss:    800 * time.Millisecond,
		Advance: 900 * time.Millisecond,
		Tick:    time.Second,
	}
}

// Options configures a Session.
type Options struct {
	Catalog   Catalog
	Generator *deck.Generator
	Source    clock.Source
	Delays    Delays
	Logger    *slog.Logger
}

// Session runs a player through every level of a catalog. It is not safe for
// concurrent use: commands and timer callbacks must arrive on one goroutine.
type Session struct {
	catalog Catalog
	gen     *deck.Generator
	src     clock.Source
	delays  Delays
	logger  *slog.Logger

	started    bool
	finished   bool
	levelIndex int
	level      *state.State
	history    scoring.History

	previewRemaining time.Duration

	epoch     uint64
	nextTimer int
	timers    map[int]pendingTimer

	queue       []Command
	dispatching bool

	nextListener int
	listeners    []listener
}

type pendingTimer struct {
	timer     clock.Timer
	kind      timerKind
	repeating bool
}

type listener struct {
	id int
	fn func(Event)
}

// NewSession checks the configuration and returns an idle session. Call
// Start to deal the first level.
func NewSession(opts Options) (*Session, error) {
	if opts.Catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	if opts.Generator == nil {
		return nil, errors.New("session requires a deck generator")
	}
	if opts.Source == nil {
		return nil, errors.New("session requires a clock source")
	}
	if need, have := opts.Catalog.MaxPairs(), len(opts.Generator.Icons); need > have {
		return nil, fmt.Errorf("%w: catalog needs %d icons, pool has %d", deck.ErrPoolTooSmall, need, have)
	}

	// A zero Delays means the stock timings.
	delays := opts.Delays
	if delays == (Delays{}) {
		delays = DefaultDelays()
	}
	if delays.Tick <= 0 {
		delays.Tick = time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Session{
		catalog:   opts.Catalog,
		gen:       opts.Generator,
		src:       opts.Source,
		delays:    delays,
		logger:    logger,
		timers:    map[int]pendingTimer{},
	}, nil
}

// Start deals the first level.
func (s *Session) Start() {
	s.Dispatch(StartCommand{})
}

// Click turns the card at index.
func (s *Session) Click(index int) {
	s.Dispatch(ClickCommand{Index: index})
}

// Restart clears the history and deals the first level again.
func (s *Session) Restart() {
	s.Dispatch(RestartCommand{})
}

// Subscribe registers fn for every state-changed event. The returned func
// removes the subscription.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch is the only way engine state changes. Commands issued while
// another command is being applied (from a subscriber, say) are queued and
// applied in order once the current one finishes.
func (s *Session) Dispatch(cmd Command) {
	s.queue = append(s.queue, cmd)
	if s.dispatching {
		return
	}

	s.dispatching = true
	defer func() { s.dispatching = false }()

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.apply(next)
	}
}

func (s *Session) apply(cmd Command) {
	switch c := cmd.(type) {
	case StartCommand:
		if s.started {
			return
		}
		s.started = true
		s.startLevel(0, false)
	case RestartCommand:
		s.started = true
		s.finished = false
		s.history.Reset()
		s.logger.Info("session restarted")
		s.emit(Event{Kind: SessionReset, Level: 1})
		s.startLevel(0, false)
	case ClickCommand:
		s.click(c.Index)
	case timerFired:
		if p, ok := s.timers[c.id]; ok && !p.repeating {
			delete(s.timers, c.id)
		}
		if c.epoch != s.epoch {
			s.logger.Debug("stale timer discarded", "timer", c.kind.String(), "epoch", c.epoch, "current", s.epoch)
			return
		}
		s.handleTimer(c.kind)
	}
}

func (s *Session) handleTimer(kind timerKind) {
	switch kind {
	case timerPreviewTick:
		if s.level == nil || !s.level.IsPreviewing() {
			return
		}
		s.previewRemaining = max(s.previewRemaining-s.delays.Tick, 0)
		s.emit(Event{Kind: PreviewTick, Level: s.level.Level})
	case timerPreviewEnd:
		s.endPreview()
	case timerResolvePair:
		s.resolvePair()
	case timerAdvanceLevel:
		s.advance()
	}
}

// startLevel replaces the current level wholesale. Every timer of the
// previous level is stopped and its epoch retired. A deck that cannot be
// dealt leaves the session untouched.
func (s *Session) startLevel(index int, advanced bool) {
	def := s.catalog.Level(index)
	d, err := s.gen.Generate(def.PairCount)
	if err != nil {
		// NewSession checked the pool size, so this is a programming error.
		s.logger.Error("failed to deal level", "level", index+1, "error", err)
		return
	}

	s.retireTimers()

	s.levelIndex = index
	s.level = state.NewState(index+1, d, s.src)
	_ = s.level.Preview()
	s.previewRemaining = def.Preview

	s.logger.Info("level started",
		"level", index+1,
		"pairs", def.PairCount,
		"preview", def.Preview,
		"epoch", s.epoch)

	if advanced {
		s.emit(Event{Kind: LevelAdvanced, Level: index + 1})
	}
	s.emit(Event{Kind: DeckDealt, Level: index + 1})

	if def.Preview <= 0 {
		s.endPreview()
		return
	}
	s.every(s.delays.Tick, timerPreviewTick)
	s.after(def.Preview, timerPreviewEnd)
}

func (s *Session) endPreview() {
	if s.level == nil || !s.level.IsPreviewing() {
		return
	}
	s.previewRemaining = 0
	if err := s.level.Reveal(); err != nil {
		s.logger.Error("failed to end preview", "level", s.level.Level, "error", err)
		return
	}
	// The countdown has nothing left to show.
	s.stopTimers(timerPreviewTick)
	s.emit(Event{Kind: PreviewEnded, Level: s.level.Level})
}

func (s *Session) click(index int) {
	if s.level == nil || s.finished {
		return
	}
	if !s.level.Click(index) {
		return
	}
	s.emit(Event{Kind: CardFlipped, Level: s.level.Level, Indices: []int{index}})

	if s.level.Current() != state.StateResolvingPair {
		return
	}

	pair := s.level.LastPair
	switch s.level.Pending {
	case state.OutcomeMatch:
		s.after(s.delays.Match, timerResolvePair)
	case state.OutcomeMiss:
		s.logger.Debug("pair missed",
			"level", s.level.Level,
			"first", pair[0],
			"second", pair[1],
			"misses", s.level.MissCount)
		s.emit(Event{Kind: PairMissed, Level: s.level.Level, Indices: pair[:]})
		s.after(s.delays.Miss, timerResolvePair)
	}
}

func (s *Session) resolvePair() {
	if s.level == nil || s.level.Current() != state.StateResolvingPair {
		return
	}
	outcome := s.level.Pending
	pair := s.level.LastPair
	if err := s.level.Resolve(); err != nil {
		s.logger.Error("failed to resolve pair", "level", s.level.Level, "error", err)
		return
	}

	s.logger.Debug("pair resolved", "level", s.level.Level, "outcome", outcome.String())

	switch outcome {
	case state.OutcomeMatch:
		s.emit(Event{Kind: PairMatched, Level: s.level.Level, Indices: pair[:]})
	case state.OutcomeMiss:
		s.emit(Event{Kind: PairHidden, Level: s.level.Level, Indices: pair[:]})
	}

	if s.level.IsComplete() {
		s.completeLevel()
	}
}

func (s *Session) completeLevel() {
	stats := *s.level.Result
	s.history.Append(stats)

	s.logger.Info("level completed",
		"level", stats.LevelNumber,
		"elapsed_seconds", stats.ElapsedSeconds,
		"misses", stats.MissCount)

	s.emit(Event{Kind: LevelCompleted, Level: stats.LevelNumber, Stats: &stats})
	s.after(s.delays.Advance, timerAdvanceLevel)
}

func (s *Session) advance() {
	if s.level == nil || !s.level.IsComplete() {
		return
	}
	if next := s.levelIndex + 1; next < s.catalog.Len() {
		s.startLevel(next, true)
		return
	}

	s.retireTimers()
	s.finished = true
	summary := s.history.Summary(s.catalog.TotalPairs())

	s.logger.Info("session completed",
		"elapsed_seconds", summary.TotalElapsedSeconds,
		"misses", summary.TotalMissCount,
		"pairs_per_second", summary.PairsPerSecond)

	s.emit(Event{Kind: SessionCompleted, Level: s.level.Level, Summary: &summary})
}

func (s *Session) after(d time.Duration, kind timerKind) {
	s.schedule(kind, false, func(fire func()) clock.Timer { return s.src.AfterFunc(d, fire) })
}

func (s *Session) every(d time.Duration, kind timerKind) {
	s.schedule(kind, true, func(fire func()) clock.Timer { return s.src.Every(d, fire) })
}

func (s *Session) schedule(kind timerKind, repeating bool, register func(fire func()) clock.Timer) {
	id := s.nextTimer
	s.nextTimer++
	msg := timerFired{epoch: s.epoch, id: id, kind: kind}
	s.timers[id] = pendingTimer{
		timer:     register(func() { s.Dispatch(msg) }),
		kind:      kind,
		repeating: repeating,
	}
}

// retireTimers stops every pending timer and moves to a new epoch so that a
// callback which already escaped cancellation is recognised as stale.
func (s *Session) retireTimers() {
	for id, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, id)
	}
	s.epoch++
}

func (s *Session) stopTimers(kind timerKind) {
	for id, p := range s.timers {
		if p.kind == kind {
			p.timer.Stop()
			delete(s.timers, id)
		}
	}
}

func (s *Session) emit(e Event) {
	// Subscribers may unsubscribe while being notified.
	for _, l := range append([]listener(nil), s.listeners...) {
		l.fn(e)
	}
}

// Phase returns the current engine phase.
func (s *Session) Phase() Phase {
	switch {
	case !s.started || s.level == nil:
		return PhaseIdle
	case s.finished:
		return PhaseAllLevelsComplete
	}
	switch s.level.Current() {
	case state.StatePreviewing:
		return PhasePreviewing
	case state.StatePlayable:
		return PhasePlayable
	case state.StateResolvingPair, state.StateEvaluating:
		return PhaseResolvingPair
	case state.StateLevelComplete:
		return PhaseLevelComplete
	default:
		return PhaseIdle
	}
}

// Summary returns the session summary once every level is complete.
func (s *Session) Summary() (scoring.Summary, bool) {
	if !s.finished {
		return scoring.Summary{}, false
	}
	return s.history.Summary(s.catalog.TotalPairs()), true
}

// History returns the completed levels in order.
func (s *Session) History() []scoring.LevelRunStats {
	return s.history.Entries()
}

// Fastest returns up to n completed levels, quickest first.
func (s *Session) Fastest(n int) []scoring.LevelRunStats {
	return s.history.Fastest(n)
}

// Catalog returns the level catalog the session plays.
func (s *Session) Catalog() Catalog {
	return s.catalog
}

// Epoch returns the current timer generation.
func (s *Session) Epoch() uint64 {
	return s.epoch
}

// Snapshot is a read-only copy of everything a presentation layer renders.
type Snapshot struct {
	Phase            Phase
	Level            int // 1-based, 0 before Start
	LevelCount       int
	PairCount        int
	Columns          int
	Cards            deck.Deck
	CountdownSeconds int
	AcceptingInput   bool
	MissCount        int
	MatchedPairs     int
	History          []scoring.LevelRunStats
	Summary          *scoring.Summary
}

// Snapshot copies the observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:      s.Phase(),
		LevelCount: s.catalog.Len(),
		History:    s.history.Entries(),
	}
	if summary, ok := s.Summary(); ok {
		snap.Summary = &summary
	}
	if s.level == nil {
		return snap
	}

	snap.Level = s.level.Level
	snap.PairCount = s.level.PairCount()
	snap.Columns = Columns(snap.PairCount)
	snap.Cards = s.level.Deck.Clone()
	snap.AcceptingInput = !s.finished && s.level.AcceptsInput()
	snap.MissCount = s.level.MissCount
	snap.MatchedPairs = s.level.MatchedPairs()
	if s.level.IsPreviewing() {
		snap.CountdownSeconds = int(math.Ceil(s.previewRemaining.Seconds()))
	}
	return snap
}
