package cli

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Toggle     key.Binding
	Inspect    key.Binding
	Scramble   key.Binding
	Inspection key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Prev       key.Binding
	Next       key.Binding
	Reveal     key.Binding
	Learn      key.Binding
	Step       key.Binding
	Reset      key.Binding
	Confirm    key.Binding
	Help       key.Binding
	Quit       key.Binding

	tab tab
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		Inspect:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
		Scramble:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new scramble")),
		Inspection: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "inspection on/off")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev card")),
		Next:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next card")),
		Reveal:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "reveal")),
		Learn:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "learned")),
		Step:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next step")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp shows the keys that apply to the current tab.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.tab {
	case tabAlgorithms:
		return []key.Binding{k.Prev, k.Next, k.Reveal, k.Learn, k.Step, k.NextTab, k.Quit}
	case tabTimer:
		return []key.Binding{k.Toggle, k.Inspect, k.Scramble, k.Inspection, k.NextTab, k.Help, k.Quit}
	default:
		return []key.Binding{k.NextTab, k.PrevTab, k.Reset, k.Help, k.Quit}
	}
}

// FullHelp shows every key.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Inspect, k.Scramble, k.Inspection},
		{k.Prev, k.Next, k.Reveal, k.Learn, k.Step},
		{k.NextTab, k.PrevTab, k.Reset, k.Help, k.Quit},
	}
}
