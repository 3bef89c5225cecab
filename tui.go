package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"go-match/internal/deck"
	"go-match/internal/game"
)

const (
	cardBack  = "?"
	cellWidth = 2
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	countdown    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	matchedStyle = cardStyle.BorderForeground(lipgloss.Color("10")).Faint(true)
	cursorStyle  = cardStyle.BorderForeground(lipgloss.Color("12")).Reverse(true)
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Flip    key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Flip, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Flip:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "flip")),
	Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// playModel hosts a game session in bubbletea.
type playModel struct {
	session *game.Session
	sched   *teaScheduler
	keys    keyMap
	help    help.Model
	cursor  int
	status  string
}

func newPlayModel(session *game.Session, sched *teaScheduler) *playModel {
	m := &playModel{
		session: session,
		sched:   sched,
		keys:    defaultKeys,
		help:    help.New(),
	}
	session.Subscribe(m.onEvent)
	return m
}

func (m *playModel) onEvent(e game.Event) {
	switch e.Kind {
	case game.DeckDealt:
		m.cursor = 0
		m.status = ""
	case game.PreviewEnded:
		m.status = "Go!"
	case game.PairMatched:
		m.status = greenStyle.Render("Match!")
	case game.PairMissed:
		m.status = redStyle.Render("Miss")
	case game.PairHidden:
		m.status = ""
	case game.LevelCompleted:
		if e.Stats != nil {
			m.status = greenStyle.Render(fmt.Sprintf("Level %d cleared in %s", e.Level, formatSeconds(e.Stats.ElapsedSeconds)))
		}
	case game.SessionReset:
		m.status = "Restarted"
	}
}

func (m *playModel) Init() tea.Cmd {
	m.session.Start()
	return m.sched.Flush()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerMsg:
		m.sched.Fire(msg.id)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		snap := m.session.Snapshot()
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Restart):
			m.session.Restart()
		case key.Matches(msg, m.keys.Flip):
			m.session.Click(m.cursor)
		case key.Matches(msg, m.keys.Left):
			m.move(snap, -1)
		case key.Matches(msg, m.keys.Right):
			m.move(snap, 1)
		case key.Matches(msg, m.keys.Up):
			m.move(snap, -snap.Columns)
		case key.Matches(msg, m.keys.Down):
			m.move(snap, snap.Columns)
		}
	}
	return m, m.sched.Flush()
}

func (m *playModel) move(snap game.Snapshot, delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(snap.Cards) {
		return
	}
	m.cursor = next
}

func (m *playModel) View() string {
	snap := m.session.Snapshot()

	switch snap.Phase {
	case game.PhaseIdle:
		return ""
	case game.PhaseAllLevelsComplete:
		return renderResults(*snap.Summary, snap.History, m.session.Fastest(1)) + "\n" + m.help.View(m.keys)
	}

	var b strings.Builder
	b.WriteString(boldStyle.Render(fmt.Sprintf("LEVEL %d/%d", snap.Level, snap.LevelCount)))
	fmt.Fprintf(&b, " | PAIRS: %d/%d | MISSES: %d", snap.MatchedPairs, snap.PairCount, snap.MissCount)
	if snap.Phase == game.PhasePreviewing {
		b.WriteString(" | " + countdown.Render(fmt.Sprintf("MEMORIZE: %ds", snap.CountdownSeconds)))
	}
	b.WriteString("\n")
	b.WriteString(m.renderBoard(snap))
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *playModel) renderBoard(snap game.Snapshot) string {
	cols := max(snap.Columns, 1)
	var rows []string
	for start := 0; start < len(snap.Cards); start += cols {
		end := min(start+cols, len(snap.Cards))
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cells = append(cells, renderCard(snap.Cards[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cardFace pads the visible side to a fixed cell width. Emoji take two cells.
func cardFace(c deck.Card) string {
	face := cardBack
	if c.FaceUp || c.Matched {
		face = c.Symbol
	}
	face = runewidth.Truncate(face, cellWidth, "")
	return runewidth.FillRight(face, cellWidth)
}

func renderCard(c deck.Card, selected bool) string {
	style := cardStyle
	switch {
	case selected:
		style = cursorStyle
	case c.Matched:
		style = matchedStyle
	}
	return style.Render(cardFace(c))
}
