// Package clock defines the time source the game engine is driven by.
//
// The engine never sleeps or starts goroutines. It asks the host for timers
// and expects every callback to run on the same goroutine that issues
// commands, so the host decides how time actually passes: a terminal UI turns
// timers into event-loop messages, tests advance a Manual clock by hand.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing again. It reports whether the
	// timer was still pending.
	Stop() bool
}

// Scheduler registers callbacks to run after a delay.
type Scheduler interface {
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f every d until stopped.
	Every(d time.Duration, f func()) Timer
}

// Source is the combined clock and scheduler a host supplies.
type Source interface {
	Clock
	Scheduler
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
