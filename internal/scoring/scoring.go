// Package scoring aggregates per-level results into the end-of-session
// summary.
package scoring

// Summary is the derived, presentation-ready view of a finished session.
// It is recomputed on demand and never stored.
type Summary struct {
	TotalElapsedSeconds float64 `json:"total_elapsed_seconds"`
	TotalMissCount      int     `json:"total_misses"`
	TotalPairsMatched   int     `json:"total_pairs"`
	PairsPerSecond      float64 `json:"pairs_per_second"`
	CardsPerSecond      float64 `json:"cards_per_second"`
}

// Summarize folds the level log into a Summary. totalPairs is the pair count
// of the whole catalog, since summaries are only produced once every level
// has been played.
func Summarize(entries []LevelRunStats, totalPairs int) Summary {
	s := Summary{TotalPairsMatched: totalPairs}
	for _, e := range entries {
		s.TotalElapsedSeconds += e.ElapsedSeconds
		s.TotalMissCount += e.MissCount
	}

	// Zero elapsed time yields zero speed rather than +Inf.
	if s.TotalElapsedSeconds > 0 {
		s.PairsPerSecond = float64(totalPairs) / s.TotalElapsedSeconds
	}
	s.CardsPerSecond = s.PairsPerSecond * 2
	return s
}

// Summary returns the summary of the log for a catalog of totalPairs pairs.
func (h *History) Summary(totalPairs int) Summary {
	return Summarize(h.entries, totalPairs)
}
