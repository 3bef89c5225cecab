package clock

import (
	"sort"
	"time"
)

// Manual is a virtual clock whose time only moves when Advance is called.
// Due callbacks run synchronously inside Advance, ordered by due time and then
// by registration order.
type Manual struct {
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	seq     int
	due     time.Time
	every   time.Duration
	fn      func()
	stopped bool
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc schedules f to run once d after the current virtual time.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	return m.add(d, 0, f)
}

// Every schedules f to run every d. A non-positive interval is treated as a
// one-shot timer to avoid an endless loop inside Advance.
func (m *Manual) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		return m.add(d, 0, f)
	}
	return m.add(d, d, f)
}

func (m *Manual) add(d, every time.Duration, f func()) *manualTimer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, seq: m.seq, due: m.now.Add(d), every: every, fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Stop cancels the timer.
func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}

func (m *Manual) remove(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, firing every callback that becomes
// due on the way. Callbacks observe Now() equal to their due time.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.every > 0 {
			next.due = next.due.Add(next.every)
			m.seq++
			next.seq = m.seq
		} else {
			next.stopped = true
			m.remove(next)
		}
		next.fn()
	}
	m.now = target
}

func (m *Manual) nextDue(limit time.Time) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})
	if m.timers[0].due.After(limit) {
		return nil
	}
	return m.timers[0]
}

// Pending returns the number of timers still scheduled.
func (m *Manual) Pending() int {
	return len(m.timers)
}
