package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/analysis"
)

// Styles shared by plain commands and the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	bestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// statLine renders "label  value" with the label padded to width.
func statLine(label string, s analysis.Stat, width int) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-*s", width, label)), valueStyle.Render(s.String()))
}

// dashboardLines renders the statistics panel.
func dashboardLines(d analysis.Dashboard) []string {
	return []string{
		statLine("Ao5", d.Ao5, 13),
		statLine("Ao12", d.Ao12, 13),
		statLine("Ao50", d.Ao50, 13),
		statLine("Ao100", d.Ao100, 13),
		statLine("Best", d.Best, 13),
		statLine("Session best", d.SessionBest, 13),
		fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-13s", "Solves")),
			valueStyle.Render(fmt.Sprintf("%d (%d this session)", d.Total, d.SessionTotal))),
	}
}

// solveLine renders one solve for a list: time, relative date, scramble.
func solveLine(rec cubetrainer.SolveRecord, best float64, now time.Time) string {
	t := fmt.Sprintf("%8s", cubetrainer.FormatSeconds(rec.Time))
	if rec.Time == best {
		t = bestStyle.Render(t)
	}
	when := humanize.RelTime(rec.Date, now, "ago", "from now")
	return fmt.Sprintf("%s  %-16s  %s", t, when, labelStyle.Render(rec.Scramble))
}
