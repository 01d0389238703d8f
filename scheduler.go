package cubetrainer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a handle to a periodic callback. Cancel is idempotent and
// releases the task's resources immediately.
type Task interface {
	Cancel()
}

// Scheduler runs periodic callbacks. The Timer uses one task for the
// inspection countdown and one for the running display refresh, and never
// has both alive at once.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// ClockScheduler runs each task on its own goroutine driven by a
// clockwork ticker. In production use clockwork.NewRealClock().
type ClockScheduler struct {
	clock clockwork.Clock
}

// NewClockScheduler creates a scheduler on the given clock. A nil clock
// means the real clock.
func NewClockScheduler(clock clockwork.Clock) *ClockScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockScheduler{clock: clock}
}

// Every starts calling fn once per interval until the task is canceled.
func (s *ClockScheduler) Every(interval time.Duration, fn func()) Task {
	t := &tickerTask{
		ticker: s.clock.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTask struct {
	ticker clockwork.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.Chan():
			// Cancel may race with a pending tick; prefer the cancel.
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

// Cancel stops the ticker and ends the task goroutine.
func (t *tickerTask) Cancel() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// ManualScheduler runs tasks on virtual time. Advance moves a FakeClock
// forward and fires every due tick synchronously, in time order, on the
// caller's goroutine. Tasks created or canceled from inside a callback take
// effect immediately.
type ManualScheduler struct {
	clock *clockwork.FakeClock

	mu    sync.Mutex
	tasks []*manualTask
	seq   uint64
}

type manualTask struct {
	s        *ManualScheduler
	seq      uint64
	interval time.Duration
	next     time.Time
	fn       func()
}

// NewManualScheduler creates a virtual-time scheduler on clock.
func NewManualScheduler(clock *clockwork.FakeClock) *ManualScheduler {
	return &ManualScheduler{clock: clock}
}

// Clock returns the fake clock driven by this scheduler.
func (s *ManualScheduler) Clock() *clockwork.FakeClock {
	return s.clock
}

// Every registers fn to run once per interval of virtual time.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		panic("cubetrainer: non-positive interval for ManualScheduler.Every")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTask{
		s:        s,
		seq:      s.seq,
		interval: interval,
		next:     s.clock.Now().Add(interval),
		fn:       fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of live tasks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Advance moves virtual time forward by d, firing due callbacks.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.clock.Now().Add(d)

	for {
		s.mu.Lock()
		t := s.nextDue(target)
		if t == nil {
			s.mu.Unlock()
			break
		}
		at := t.next
		t.next = t.next.Add(t.interval)
		s.mu.Unlock()

		if gap := at.Sub(s.clock.Now()); gap > 0 {
			s.clock.Advance(gap)
		}
		t.fn()
	}

	if rest := target.Sub(s.clock.Now()); rest > 0 {
		s.clock.Advance(rest)
	}
}

// nextDue returns the earliest task due at or before target. The caller
// must hold s.mu.
func (s *ManualScheduler) nextDue(target time.Time) *manualTask {
	var due *manualTask
	for _, t := range s.tasks {
		if t.next.After(target) {
			continue
		}
		if due == nil || t.next.Before(due.next) || (t.next.Equal(due.next) && t.seq < due.seq) {
			due = t
		}
	}
	return due
}

// Cancel removes the task from the scheduler.
func (t *manualTask) Cancel() {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, other := range s.tasks {
		if other == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}
