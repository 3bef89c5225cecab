package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-match/internal/clock"
)

// timerMsg is delivered by the bubbletea runtime when a scheduled task is due.
type timerMsg struct {
	id int
}

// teaScheduler turns engine timers into tea.Tick commands, so every callback
// runs inside Update on the program goroutine.
type teaScheduler struct {
	clock.SystemClock

	nextID  int
	tasks   map[int]*teaTask
	pending []tea.Cmd
}

type teaTask struct {
	sched *teaScheduler
	id    int
	every time.Duration
	fn    func()
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: map[int]*teaTask{}}
}

func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) clock.Timer {
	return s.add(d, 0, fn)
}

func (s *teaScheduler) Every(d time.Duration, fn func()) clock.Timer {
	if d <= 0 {
		return s.add(d, 0, fn)
	}
	return s.add(d, d, fn)
}

func (s *teaScheduler) add(d, every time.Duration, fn func()) *teaTask {
	s.nextID++
	t := &teaTask{sched: s, id: s.nextID, every: every, fn: fn}
	s.tasks[t.id] = t
	s.arm(t.id, d)
	return t
}

func (s *teaScheduler) arm(id int, d time.Duration) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
}

// Fire runs the task behind a delivered timerMsg. Stopped tasks are ignored.
func (s *teaScheduler) Fire(id int) {
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	if t.every > 0 {
		s.arm(id, t.every)
	} else {
		delete(s.tasks, id)
	}
	t.fn()
}

// Flush hands the ticks armed since the last call to the runtime.
func (s *teaScheduler) Flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Len returns the number of live tasks.
func (s *teaScheduler) Len() int {
	return len(s.tasks)
}

func (t *teaTask) Stop() bool {
	if _, ok := t.sched.tasks[t.id]; !ok {
		return false
	}
	delete(t.sched.tasks, t.id)
	return true
}
