package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"go-match/internal/game"
	"go-match/internal/scoring"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	tableBorder  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 1, 64) + "s"
}

// renderSummary lists the session totals, one per line.
func renderSummary(sum scoring.Summary) string {
	rows := [][2]string{
		{"Total time", formatSeconds(sum.TotalElapsedSeconds)},
		{"Pairs per second", strconv.FormatFloat(sum.PairsPerSecond, 'f', 3, 64)},
		{"Cards per second", strconv.FormatFloat(sum.CardsPerSecond, 'f', 3, 64)},
		{"Total misses", strconv.Itoa(sum.TotalMissCount)},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(r[0]+":"), r[1])
	}
	return b.String()
}

// renderLevelTable renders one row per completed level.
func renderLevelTable(history []scoring.LevelRunStats) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers("Level", "Time", "Misses")
	for _, h := range history {
		t.Row(strconv.Itoa(h.LevelNumber), formatSeconds(h.ElapsedSeconds), strconv.Itoa(h.MissCount))
	}
	return t.Render()
}

// renderCatalog renders the level list printed by the levels command.
func renderCatalog(cat game.Catalog) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers("Level", "Pairs", "Cards", "Columns", "Preview")
	for i, lvl := range cat.Levels() {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(lvl.PairCount),
			strconv.Itoa(lvl.PairCount*2),
			strconv.Itoa(game.Columns(lvl.PairCount)),
			lvl.Preview.String(),
		)
	}
	return t.Render()
}

// renderResults is the end-of-session screen.
func renderResults(sum scoring.Summary, history, fastest []scoring.LevelRunStats) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("All levels complete!"))
	b.WriteString("\n\n")
	b.WriteString(renderSummary(sum))
	b.WriteString("\n")
	b.WriteString(renderLevelTable(history))
	b.WriteString("\n")
	if len(fastest) > 0 {
		f := fastest[0]
		fmt.Fprintf(&b, "%s level %d in %s\n", labelStyle.Render("Fastest:"), f.LevelNumber, formatSeconds(f.ElapsedSeconds))
	}
	return b.String()
}
