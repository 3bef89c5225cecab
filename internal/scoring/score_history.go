package scoring

import (
	"sort"
)

// LevelRunStats records how one completed level went. Records are never
// modified after they are appended to a History.
type LevelRunStats struct {
	LevelNumber    int     `json:"level"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	MissCount      int     `json:"misses"`
}

// History is the append-only, ordered log of completed levels for the
// current session.
type History struct {
	entries []LevelRunStats
}

// Append adds a completed level to the end of the log.
func (h *History) Append(entry LevelRunStats) {
	h.entries = append(h.entries, entry)
}

// Entries returns a copy of the log in completion order.
func (h *History) Entries() []LevelRunStats {
	out := make([]LevelRunStats, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of completed levels.
func (h *History) Len() int {
	return len(h.entries)
}

// Reset discards the whole log. Only a session restart does this.
func (h *History) Reset() {
	h.entries = nil
}

// Fastest returns up to n entries ordered by elapsed time, quickest first.
// Ties keep completion order.
func (h *History) Fastest(n int) []LevelRunStats {
	if n <= 0 {
		return nil
	}

	// Make a copy to avoid modifying the log.
	entriesCopy := h.Entries()

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].ElapsedSeconds < entriesCopy[j].ElapsedSeconds
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}
