package game

import (
	"errors"
	"testing"
	"time"

	"go-match/internal/deck"
)

func TestNewCatalog_Default(t *testing.T) {
	cat, err := NewCatalog(DefaultLevels(), len(deck.DefaultIcons))
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	if cat.Len() != 3 {
		t.Errorf("Expected 3 levels, got %d", cat.Len())
	}
	if cat.TotalPairs() != 28 {
		t.Errorf("Expected 28 pairs, got %d", cat.TotalPairs())
	}
	if cat.MaxPairs() != 15 {
		t.Errorf("Expected max 15 pairs, got %d", cat.MaxPairs())
	}

	expected := []LevelDefinition{
		{PairCount: 3, Preview: 5 * time.Second},
		{PairCount: 10, Preview: 8 * time.Second},
		{PairCount: 15, Preview: 10 * time.Second},
	}
	for i, want := range expected {
		if got := cat.Level(i); got != want {
			t.Errorf("level %d: expected %+v, got %+v", i+1, want, got)
		}
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	if cat.Len() != 3 || cat.TotalPairs() != 28 {
		t.Errorf("unexpected default catalog: %d levels, %d pairs", cat.Len(), cat.TotalPairs())
	}
}

func TestNewCatalog_Errors(t *testing.T) {
	tests := []struct {
		name   string
		levels []LevelDefinition
		pool   int
		want   error
	}{
		{"empty", nil, 30, ErrEmptyCatalog},
		{"zero pairs", []LevelDefinition{{PairCount: 0}}, 30, ErrInvalidLevel},
		{"negative preview", []LevelDefinition{{PairCount: 2, Preview: -time.Second}}, 30, ErrInvalidLevel},
		{"pool too small", []LevelDefinition{{PairCount: 3}, {PairCount: 4}}, 3, deck.ErrPoolTooSmall},
	}

	for _, tt := range tests {
		_, err := NewCatalog(tt.levels, tt.pool)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestCatalog_LevelsIsCopy(t *testing.T) {
	levels := DefaultLevels()
	cat, _ := NewCatalog(levels, 30)

	levels[0].PairCount = 99
	if cat.Level(0).PairCount != 3 {
		t.Error("catalog must not alias the input slice")
	}

	out := cat.Levels()
	out[1].PairCount = 99
	if cat.Level(1).PairCount != 10 {
		t.Error("Levels must return a copy")
	}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		pairs int
		want  int
	}{
		{3, 3},
		{1, 5},
		{10, 5},
		{15, 5},
	}
	for _, tt := range tests {
		if got := Columns(tt.pairs); got != tt.want {
			t.Errorf("Columns(%d) = %d, expected %d", tt.pairs, got, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	if PhaseAllLevelsComplete.String() != "all-levels-complete" {
		t.Errorf("unexpected phase name %q", PhaseAllLevelsComplete)
	}
	if SessionCompleted.String() != "session-completed" {
		t.Errorf("unexpected event name %q", SessionCompleted)
	}
	if EventKind(99).String() != "event(99)" {
		t.Errorf("unexpected fallback name %q", EventKind(99))
	}
	if timerAdvanceLevel.String() != "advance-level" {
		t.Errorf("unexpected timer name %q", timerAdvanceLevel)
	}
}
