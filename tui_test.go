package main

import (
	"math/rand/v2"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-match/internal/deck"
	"go-match/internal/game"
	"go-match/internal/scoring"
)

func newTestModel(t *testing.T, levels []game.LevelDefinition) *playModel {
	t.Helper()
	cat, err := game.NewCatalog(levels, len(deck.DefaultIcons))
	require.NoError(t, err)

	sched := newTeaScheduler()
	sess, err := game.NewSession(game.Options{
		Catalog:   cat,
		Generator: deck.NewGenerator(deck.DefaultIcons, rand.New(rand.NewPCG(1, 2))),
		Source:    sched,
	})
	require.NoError(t, err)

	m := newPlayModel(sess, sched)
	m.Init()
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// fireAll delivers every scheduled task until none are left.
func fireAll(m *playModel) {
	for range 10 {
		if m.sched.Len() == 0 {
			return
		}
		ids := make([]int, 0, m.sched.Len())
		for id := range m.sched.tasks {
			ids = append(ids, id)
		}
		for _, id := range ids {
			m.Update(timerMsg{id: id})
		}
	}
}

func TestPlayModel_PreviewBlocksFlip(t *testing.T) {
	m := newTestModel(t, game.DefaultLevels())

	snap := m.session.Snapshot()
	assert.Equal(t, game.PhasePreviewing, snap.Phase)
	assert.Contains(t, m.View(), "MEMORIZE: 5s")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, game.PhasePreviewing, m.session.Phase())
}

func TestPlayModel_CursorAndFlip(t *testing.T) {
	m := newTestModel(t, []game.LevelDefinition{{PairCount: 3}})
	require.Equal(t, game.PhasePlayable, m.session.Phase())
	assert.Contains(t, m.View(), "LEVEL 1/1")

	m.Update(runeKey('h'))
	assert.Equal(t, 0, m.cursor, "cursor stays on the board")

	m.Update(runeKey('l'))
	assert.Equal(t, 1, m.cursor)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 4, m.cursor, "three columns for three pairs")
	m.Update(runeKey('j'))
	assert.Equal(t, 4, m.cursor)
	m.Update(runeKey('k'))
	assert.Equal(t, 1, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	cards := m.session.Snapshot().Cards
	assert.True(t, cards[1].FaceUp)
	assert.False(t, cards[0].FaceUp)
}

func TestPlayModel_CompletesToResults(t *testing.T) {
	m := newTestModel(t, []game.LevelDefinition{{PairCount: 1}})

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runeKey('l'))
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, game.PhaseResolvingPair, m.session.Phase())

	fireAll(m)
	assert.Contains(t, m.status, "Level 1 cleared")

	require.Equal(t, game.PhaseAllLevelsComplete, m.session.Phase())
	view := m.View()
	assert.Contains(t, view, "All levels complete!")
	assert.Contains(t, view, "Total misses:")

	m.Update(runeKey('r'))
	assert.Equal(t, game.PhasePlayable, m.session.Phase())
	assert.Equal(t, 0, m.cursor)
	assert.Empty(t, m.session.History())
}

func TestPlayModel_Quit(t *testing.T) {
	m := newTestModel(t, []game.LevelDefinition{{PairCount: 2}})

	_, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestCardFace(t *testing.T) {
	tests := []struct {
		card deck.Card
		want string
	}{
		{deck.Card{Symbol: "🐶"}, "? "},
		{deck.Card{Symbol: "🐶", FaceUp: true}, "🐶"},
		{deck.Card{Symbol: "A", Matched: true}, "A "},
	}
	for _, tt := range tests {
		got := cardFace(tt.card)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, cellWidth, runewidth.StringWidth(got))
	}
}

func TestRenderResults(t *testing.T) {
	history := []scoring.LevelRunStats{
		{LevelNumber: 1, ElapsedSeconds: 4.25, MissCount: 2},
		{LevelNumber: 2, ElapsedSeconds: 3.0, MissCount: 0},
	}
	sum := scoring.Summarize(history, 4)
	fastest := []scoring.LevelRunStats{history[1]}

	out := renderResults(sum, history, fastest)
	assert.Contains(t, out, "Pairs per second: 0.552")
	assert.Contains(t, out, "Cards per second: 1.103")
	assert.Contains(t, out, "Total misses: 2")
	assert.Contains(t, out, "Fastest: level 2 in 3.0s")
	assert.True(t, strings.Contains(out, "4.2s") || strings.Contains(out, "4.3s"))
}
