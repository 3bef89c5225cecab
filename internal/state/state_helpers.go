package state

// AcceptsInput reports whether a click can currently flip a card.
func (s *State) AcceptsInput() bool {
	return s.FSM.Current() == StatePlayable && len(s.Open) < 2
}

// IsPreviewing reports whether the deck is being shown before play.
func (s *State) IsPreviewing() bool {
	return s.FSM.Current() == StatePreviewing
}

// IsComplete reports whether every pair has been found.
func (s *State) IsComplete() bool {
	return s.FSM.Current() == StateLevelComplete
}

// PairCount returns the number of pairs dealt for this level.
func (s *State) PairCount() int {
	return len(s.Deck) / 2
}

// MatchedPairs returns how many pairs have been found so far.
func (s *State) MatchedPairs() int {
	n := 0
	for _, c := range s.Deck {
		if c.Matched {
			n++
		}
	}
	return n / 2
}

// CanFlip reports whether the card at index is a legal click target,
// ignoring the FSM state.
func (s *State) CanFlip(index int) bool {
	if index < 0 || index >= len(s.Deck) {
		return false
	}
	c := s.Deck[index]
	return !c.Matched && !c.FaceUp
}
