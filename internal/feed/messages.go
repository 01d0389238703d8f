package feed

import (
	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/algorithms"
	"github.com/SeamusWaldron/cubetrainer/internal/analysis"
)

// Message types sent over the websocket.
const (
	TypeSnapshot  = "snapshot"
	TypeTimer     = "timer"
	TypeDashboard = "dashboard"
)

// TimerView is the display state of the timer.
type TimerView struct {
	Event     string `json:"event,omitempty"`
	State     string `json:"state"`
	Countdown int    `json:"countdown"`
	Severity  string `json:"severity"`
	Display   string `json:"display"`
	Scramble  string `json:"scramble"`
}

// Message is one websocket frame.
type Message struct {
	Type      string                   `json:"type"`
	Timer     *TimerView               `json:"timer,omitempty"`
	Dashboard *analysis.Dashboard      `json:"dashboard,omitempty"`
	Solve     *cubetrainer.SolveRecord `json:"solve,omitempty"`
	Reset     bool                     `json:"reset,omitempty"`
}

// State is the body of GET /api/state and of the initial snapshot.
type State struct {
	Session   string                    `json:"session"`
	Timer     TimerView                 `json:"timer"`
	Dashboard analysis.Dashboard        `json:"dashboard"`
	Recent    []cubetrainer.SolveRecord `json:"recent"`
	Progress  []algorithms.StepProgress `json:"progress"`
}

func viewFromSnapshot(s cubetrainer.Snapshot) TimerView {
	return TimerView{
		State:     s.State.String(),
		Countdown: s.Countdown,
		Severity:  s.Severity.String(),
		Display:   s.Display(),
		Scramble:  s.Scramble.String(),
	}
}

func viewFromEvent(ev cubetrainer.Event) TimerView {
	v := viewFromSnapshot(cubetrainer.Snapshot{
		State:     ev.State,
		Countdown: ev.Countdown,
		Severity:  ev.Severity,
		Elapsed:   ev.Elapsed,
		Scramble:  ev.Scramble,
	})
	v.Event = ev.Kind.String()
	return v
}
