package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/algorithms"
	"github.com/SeamusWaldron/cubetrainer/internal/analysis"
	"github.com/SeamusWaldron/cubetrainer/internal/session"
	"github.com/SeamusWaldron/cubetrainer/internal/smartcube"
)

type tab int

const (
	tabTimer tab = iota
	tabDashboard
	tabAlgorithms
	tabProgress
)

var tabNames = []string{"Timer", "Dashboard", "Algorithms", "Progress"}

// recentCount is the number of solves listed under the timer.
const recentCount = 5

// Messages
type timerEventMsg struct{ ev cubetrainer.Event }
type updateMsg struct{ u session.Update }
type cubeConnectedMsg struct {
	client    *smartcube.Client
	backlight *smartcube.Backlight
}
type cubeFailedMsg struct{ err error }

// palette is the set of colors for one theme.
type palette struct {
	normal, warning, danger, running, dim, accent lipgloss.Color
}

var palettes = map[session.Theme]palette{
	session.ThemeDark: {
		normal: "252", warning: "220", danger: "196", running: "82", dim: "241", accent: "205",
	},
	session.ThemeLight: {
		normal: "235", warning: "172", danger: "160", running: "28", dim: "245", accent: "125",
	},
}

type timerModel struct {
	ctrl   *session.Controller
	timer  *cubetrainer.Timer
	events chan tea.Msg
	unsub  []func()

	keys keyMap
	help help.Model
	tab  tab

	snap     cubetrainer.Snapshot
	dash     analysis.Dashboard
	recent   []cubetrainer.SolveRecord
	last     *cubetrainer.SolveRecord
	deck     *algorithms.Deck
	settings session.Settings
	theme    palette
	confirm  bool

	connect    tea.Cmd
	cube       *smartcube.Client
	cubeStatus string
	feedAddr   string
	logPath    string

	width    int
	err      error
	quitting bool
}

func newTimerModel(ctrl *session.Controller) *timerModel {
	m := &timerModel{
		ctrl:   ctrl,
		timer:  ctrl.Timer(),
		events: make(chan tea.Msg, 256),
		keys:   newKeyMap(),
		help:   help.New(),
	}

	m.unsub = append(m.unsub,
		m.timer.Subscribe(func(ev cubetrainer.Event) { m.push(timerEventMsg{ev: ev}) }),
		ctrl.Subscribe(func(u session.Update) { m.push(updateMsg{u: u}) }),
	)

	m.deck = algorithms.NewDeck(ctrl.Catalog(), ctrl.Step())
	m.refresh()
	return m
}

// push hands a message to the UI loop without blocking the timer.
// Dropped messages are harmless because every handler re-reads state.
func (m *timerModel) push(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m *timerModel) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *timerModel) refresh() {
	m.snap = m.timer.Snapshot()
	m.dash = m.ctrl.Dashboard()
	m.recent = m.ctrl.Recent(recentCount)
	m.settings = m.ctrl.Settings()
	m.theme = palettes[m.settings.Theme]
}

func (m *timerModel) detach() {
	for _, fn := range m.unsub {
		fn()
	}
	m.unsub = nil
}

func (m *timerModel) Init() tea.Cmd {
	if m.connect != nil {
		return tea.Batch(m.listen(), m.connect)
	}
	return m.listen()
}

func (m *timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case timerEventMsg:
		m.snap = m.timer.Snapshot()
		if msg.ev.Kind == cubetrainer.EventSolve {
			m.last = msg.ev.Solve
		}
		return m, m.listen()

	case updateMsg:
		if msg.u.Reset {
			m.last = nil
		}
		m.refresh()
		return m, m.listen()

	case cubeConnectedMsg:
		m.cube = msg.client
		m.unsub = append(m.unsub, msg.backlight.Attach(m.timer))
		m.cubeStatus = "Cube: " + msg.client.Name()
		if level := msg.client.Battery(); level >= 0 {
			m.cubeStatus += fmt.Sprintf(" (Battery: %d%%)", level)
		}

	case cubeFailedMsg:
		m.cubeStatus = ""
		m.err = msg.err
	}
	return m, nil
}

func (m *timerModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm {
		m.confirm = false
		if key.Matches(msg, m.keys.Confirm) {
			if err := m.ctrl.Reset(); err != nil {
				m.err = err
			}
			m.refresh()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.timer.Close()
		m.detach()
		return tea.Quit

	// A running solve can be stopped from any tab.
	case key.Matches(msg, m.keys.Toggle) && (m.tab == tabTimer || m.snap.State == cubetrainer.StateRunning):
		m.timer.Toggle()

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Reset):
		m.confirm = true

	case m.tab == tabTimer:
		m.handleTimerKey(msg)

	case m.tab == tabAlgorithms:
		m.handleDeckKey(msg)
	}

	m.snap = m.timer.Snapshot()
	return nil
}

func (m *timerModel) handleTimerKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Inspect):
		m.timer.RequestInspection()
	case key.Matches(msg, m.keys.Scramble):
		m.timer.RequestNewScramble()
	case key.Matches(msg, m.keys.Inspection):
		m.err = m.ctrl.UpdateSettings(func(s *session.Settings) error {
			s.Inspection = !s.Inspection
			return nil
		})
	}
}

func (m *timerModel) handleDeckKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.deck.Prev()
	case key.Matches(msg, m.keys.Next):
		m.deck.Next()
	case key.Matches(msg, m.keys.Reveal):
		m.deck.Reveal()
	case key.Matches(msg, m.keys.Learn):
		if alg, ok := m.deck.Current(); ok {
			_, m.err = m.ctrl.ToggleFavorite(alg.ID)
		}
	case key.Matches(msg, m.keys.Step):
		next := algorithms.Steps[0]
		for i, s := range algorithms.Steps {
			if s == m.deck.Step() {
				next = algorithms.Steps[(i+1)%len(algorithms.Steps)]
			}
		}
		if err := m.ctrl.SwitchStep(next); err != nil {
			m.err = err
		}
		m.deck = algorithms.NewDeck(m.ctrl.Catalog(), next)
	}
}

func (m *timerModel) switchTab(delta int) {
	n := len(tabNames)
	m.tab = tab((int(m.tab) + delta + n) % n)
	m.keys.tab = m.tab
	m.refresh()
}

func (m *timerModel) View() string {
	if m.quitting {
		msg := "Goodbye!\n"
		if m.logPath != "" {
			msg += fmt.Sprintf("Log saved to: %s\n", m.logPath)
		}
		return msg
	}

	var b strings.Builder

	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case tabTimer:
		b.WriteString(m.viewTimer())
	case tabDashboard:
		b.WriteString(m.viewDashboard())
	case tabAlgorithms:
		b.WriteString(m.viewDeck())
	case tabProgress:
		b.WriteString(strings.Join(progressLines(m.ctrl.Progress(), 30), "\n"))
		b.WriteString("\n")
	}

	if m.confirm {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Delete all solves and favorites? Press y to confirm, any other key to cancel."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if status := m.viewStatus(); status != "" {
		b.WriteString(helpStyle.Render(status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *timerModel) viewTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(m.theme.dim)
		if tab(i) == m.tab {
			style = style.Bold(true).Foreground(m.theme.accent).Underline(true)
		}
		parts[i] = style.Render(name)
	}
	return titleStyle.Render("cubetrainer") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// readoutColor follows the state and the inspection severity. With
// animations off the readout keeps one color throughout.
func (m *timerModel) readoutColor() lipgloss.Color {
	if !m.settings.Animations {
		return m.theme.normal
	}
	switch {
	case m.snap.State == cubetrainer.StateRunning:
		return m.theme.running
	case m.snap.Severity == cubetrainer.SeverityDanger:
		return m.theme.danger
	case m.snap.Severity == cubetrainer.SeverityWarning:
		return m.theme.warning
	default:
		return m.theme.normal
	}
}

func (m *timerModel) viewTimer() string {
	var b strings.Builder

	display := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.readoutColor()).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.dim).
		Render(m.snap.Display())

	b.WriteString(labelStyle.Render("Scramble"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(m.snap.Scramble.String()))
	b.WriteString("\n\n")
	b.WriteString(display)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(m.snap.State.DisplayName()))
	if m.timer.Inspection() {
		b.WriteString(labelStyle.Render("  (inspection on)"))
	}
	b.WriteString("\n\n")

	if m.last != nil {
		b.WriteString(fmt.Sprintf("Last: %s   Ao5: %s   Ao12: %s\n",
			valueStyle.Render(cubetrainer.FormatSeconds(m.last.Time)),
			valueStyle.Render(m.dash.Ao5.String()),
			valueStyle.Render(m.dash.Ao12.String())))
		b.WriteString("\n")
	}

	if len(m.recent) > 0 {
		now := time.Now()
		for _, rec := range m.recent {
			b.WriteString(solveLine(rec, m.dash.Best.Value, now))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *timerModel) viewDashboard() string {
	var b strings.Builder
	for _, line := range dashboardLines(m.dash) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	solves := m.ctrl.Solves()
	if len(solves) > 1 {
		width := 40
		if m.width > 30 {
			width = min(m.width-16, 60)
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", "Times")), analysis.Sparkline(analysis.Times(solves), width)))
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", "Rolling Ao5")), analysis.Sparkline(analysis.RollingAverage(5, solves), width)))
	}
	return b.String()
}

func (m *timerModel) viewDeck() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.deck.Step().DisplayName()))
	alg, ok := m.deck.Current()
	if !ok {
		b.WriteString("\n\nNo algorithms for this step.\n")
		return b.String()
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("  card %d of %d", m.deck.Position()+1, m.deck.Len())))
	b.WriteString("\n\n")

	mark := ""
	if m.ctrl.IsFavorite(alg.ID) {
		mark = bestStyle.Render(" ★ learned")
	}
	b.WriteString(valueStyle.Render(alg.Name))
	b.WriteString(mark)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s  %s", alg.Stars(), alg.Level)))
	b.WriteString("\n\n")

	if m.deck.Revealed() {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(m.theme.running).Render(alg.Notation))
		if setup, ok := alg.Setup(); ok {
			b.WriteString("\n")
			b.WriteString(labelStyle.Render("setup "))
			b.WriteString(valueStyle.Render(setup))
		}
	} else {
		b.WriteString(labelStyle.Render("press enter to reveal"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *timerModel) viewStatus() string {
	var parts []string
	if m.cubeStatus != "" {
		parts = append(parts, m.cubeStatus)
	}
	if m.feedAddr != "" {
		parts = append(parts, "Feed: http://"+m.feedAddr)
	}
	return strings.Join(parts, "  |  ")
}
