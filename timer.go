package cubetrainer

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// EventKind identifies a timer notification.
type EventKind int

const (
	// EventStateChanged fires on every state transition.
	EventStateChanged EventKind = iota

	// EventCountdown fires when inspection starts and on every countdown tick.
	EventCountdown

	// EventElapsed fires on every display refresh while running.
	EventElapsed

	// EventScramble fires when the displayed scramble changes.
	EventScramble

	// EventSolve fires once per stopped solve and carries the record.
	EventSolve
)

// String returns a short identifier for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state"
	case EventCountdown:
		return "countdown"
	case EventElapsed:
		return "elapsed"
	case EventScramble:
		return "scramble"
	case EventSolve:
		return "solve"
	default:
		return "unknown"
	}
}

// Event is a timer notification. Every event carries the full display
// state at the moment it was emitted.
type Event struct {
	Kind      EventKind
	State     State
	Countdown int
	Severity  Severity
	Elapsed   time.Duration
	Scramble  Scramble
	Solve     *SolveRecord // set for EventSolve only
}

// Snapshot is a point-in-time view of the timer for pull-based renderers.
type Snapshot struct {
	State     State
	Countdown int
	Severity  Severity
	Elapsed   time.Duration
	Scramble  Scramble
}

// Display returns the main timer readout: the countdown while inspecting,
// otherwise the elapsed time ("0.00" when idle).
func (s Snapshot) Display() string {
	if s.State == StateInspecting {
		return strconv.Itoa(s.Countdown)
	}
	return FormatElapsed(s.Elapsed)
}

type listener struct {
	id int
	fn func(Event)
}

// Timer is the idle/inspection/running state machine.
//
// Inputs are the Request* methods and Toggle. Inputs that do not apply to
// the current state are ignored. All transitions, including those driven by
// scheduler callbacks, are serialized on an internal lock, and listeners are
// invoked synchronously while it is held: a listener must not block and must
// not call back into the Timer.
type Timer struct {
	cfg    *config
	clock  clockwork.Clock
	sched  Scheduler
	gen    *Generator
	logger zerolog.Logger

	mu        sync.Mutex
	state     State
	countdown int
	start     time.Time
	elapsed   time.Duration
	scramble  Scramble

	countdownTask Task
	refreshTask   Task

	listeners []listener
	nextID    int
}

// NewTimer creates an idle timer showing a fresh scramble.
func NewTimer(opts ...Option) *Timer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.fill()

	t := &Timer{
		cfg:    cfg,
		clock:  cfg.clock,
		sched:  cfg.scheduler,
		gen:    cfg.generator,
		logger: cfg.logger,
		state:  StateIdle,
	}
	t.scramble = t.gen.Generate(cfg.scrambleLength)
	return t
}

// Subscribe registers a listener and returns a function that removes it.
func (t *Timer) Subscribe(fn func(Event)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listener{id: id, fn: fn})

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// SessionID returns the identifier stamped on records from this timer.
func (t *Timer) SessionID() string {
	return t.cfg.sessionID
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Scramble returns the currently displayed scramble.
func (t *Timer) Scramble() Scramble {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scramble
}

// Snapshot returns the current display state. While running, the elapsed
// time is computed from the start instant at the moment of the call.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		State:     t.state,
		Countdown: t.countdown,
		Severity:  t.severity(),
		Elapsed:   t.elapsed,
		Scramble:  t.scramble,
	}
	if t.state == StateRunning {
		s.Elapsed = t.clock.Since(t.start)
	}
	return s
}

// SetInspection changes whether Toggle begins with inspection. It takes
// effect on the next toggle from idle.
func (t *Timer) SetInspection(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg.inspection = enabled
}

// Inspection reports whether Toggle begins with inspection.
func (t *Timer) Inspection() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg.inspection
}

// SetScrambleLength changes the length of scrambles generated from now on.
func (t *Timer) SetScrambleLength(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg.scrambleLength = n
}

// RequestInspection starts the inspection countdown. Only valid from idle.
func (t *Timer) RequestInspection() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateIdle {
		t.ignored("inspection")
		return
	}
	t.beginInspection()
}

// RequestStart starts the timer immediately. Only valid from idle.
func (t *Timer) RequestStart() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateIdle {
		t.ignored("start")
		return
	}
	t.startRunning()
}

// RequestStop stops a running timer and emits the solve record. Only
// valid while running.
func (t *Timer) RequestStop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		t.ignored("stop")
		return
	}
	t.stopRunning()
}

// Toggle is the start/stop key. From idle it starts inspection when
// configured, otherwise the timer; while running it stops; during
// inspection it does nothing.
func (t *Timer) Toggle() {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StateIdle:
		if t.cfg.inspection {
			t.beginInspection()
		} else {
			t.startRunning()
		}
	case StateRunning:
		t.stopRunning()
	default:
		t.ignored("toggle")
	}
}

// RequestNewScramble replaces the displayed scramble. Ignored while
// running, because the running attempt owns its scramble.
func (t *Timer) RequestNewScramble() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateRunning {
		t.ignored("new scramble")
		return
	}
	t.newScramble()
}

// Close cancels any live task and returns the timer to idle without
// recording an attempt.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelTasks()
	t.state = StateIdle
	t.countdown = 0
	t.elapsed = 0
}

func (t *Timer) beginInspection() {
	t.state = StateInspecting
	t.countdown = t.cfg.inspectionSeconds
	t.elapsed = 0
	t.logger.Debug().Int("countdown", t.countdown).Msg("inspection started")
	t.emit(EventStateChanged, nil)
	t.emit(EventCountdown, nil)

	var task Task
	task = t.sched.Every(time.Second, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.countdownTick(task)
	})
	t.countdownTask = task
}

// countdownTick handles one inspection second. The caller must hold t.mu.
func (t *Timer) countdownTick(task Task) {
	if t.state != StateInspecting || t.countdownTask != task {
		return
	}

	t.countdown--
	t.emit(EventCountdown, nil)

	if t.countdown <= 0 {
		t.countdownTask.Cancel()
		t.countdownTask = nil
		t.startRunning()
	}
}

func (t *Timer) startRunning() {
	t.cancelTasks()
	t.state = StateRunning
	t.countdown = 0
	t.start = t.clock.Now()
	t.elapsed = 0
	t.logger.Debug().Str("scramble", t.scramble.String()).Msg("timer started")
	t.emit(EventStateChanged, nil)

	var task Task
	task = t.sched.Every(t.cfg.refreshInterval, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.refreshTick(task)
	})
	t.refreshTask = task
}

// refreshTick republishes the elapsed time. The caller must hold t.mu.
func (t *Timer) refreshTick(task Task) {
	if t.state != StateRunning || t.refreshTask != task {
		return
	}
	t.elapsed = t.clock.Since(t.start)
	t.emit(EventElapsed, nil)
}

func (t *Timer) stopRunning() {
	now := t.clock.Now()
	elapsed := now.Sub(t.start)
	t.cancelTasks()

	rec := SolveRecord{
		ID:       uuid.NewString(),
		Time:     RoundSeconds(elapsed),
		Scramble: t.scramble.String(),
		Date:     now.UTC(),
		Session:  t.cfg.sessionID,
	}

	t.state = StateIdle
	t.elapsed = 0
	t.logger.Info().Float64("seconds", rec.Time).Str("solve_id", rec.ID).Msg("solve recorded")

	t.emit(EventSolve, &rec)
	t.emit(EventStateChanged, nil)
	t.newScramble()
}

func (t *Timer) newScramble() {
	t.scramble = t.gen.Generate(t.cfg.scrambleLength)
	t.emit(EventScramble, nil)
}

func (t *Timer) cancelTasks() {
	if t.countdownTask != nil {
		t.countdownTask.Cancel()
		t.countdownTask = nil
	}
	if t.refreshTask != nil {
		t.refreshTask.Cancel()
		t.refreshTask = nil
	}
}

// severity is only meaningful during inspection. The caller must hold t.mu.
func (t *Timer) severity() Severity {
	if t.state != StateInspecting {
		return SeverityNormal
	}
	return SeverityFor(t.countdown)
}

func (t *Timer) ignored(input string) {
	t.logger.Debug().Str("input", input).Str("state", t.state.String()).Msg("input ignored")
}

// emit delivers an event to every listener. The caller must hold t.mu.
func (t *Timer) emit(kind EventKind, rec *SolveRecord) {
	ev := Event{
		Kind:      kind,
		State:     t.state,
		Countdown: t.countdown,
		Severity:  t.severity(),
		Elapsed:   t.elapsed,
		Scramble:  t.scramble,
		Solve:     rec,
	}
	for _, l := range t.listeners {
		l.fn(ev)
	}
}
