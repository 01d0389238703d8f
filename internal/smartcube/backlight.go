package smartcube

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetrainer"
)

// Sender writes commands to a cube. *Client implements it.
type Sender interface {
	Send(cmd Command) error
}

// Backlight mirrors timer events on the cube LEDs: a slow flash when
// inspection starts, a flash when the countdown enters the danger tier,
// and a backlight toggle when a solve is recorded.
//
// Timer listeners must not block, so Handle only queues commands; Run
// writes them. Commands that do not fit in the queue are dropped.
type Backlight struct {
	sender Sender
	logger zerolog.Logger
	queue  chan Command

	mu   sync.Mutex
	last cubetrainer.Severity
}

// NewBacklight creates a backlight driver for sender.
func NewBacklight(sender Sender, logger zerolog.Logger) *Backlight {
	return &Backlight{
		sender: sender,
		logger: logger.With().Str("component", "backlight").Logger(),
		queue:  make(chan Command, 8),
	}
}

// Attach subscribes to timer and returns the unsubscribe function.
func (b *Backlight) Attach(timer *cubetrainer.Timer) (detach func()) {
	return timer.Subscribe(b.Handle)
}

// Handle maps a timer event to a backlight command.
func (b *Backlight) Handle(ev cubetrainer.Event) {
	b.mu.Lock()
	var cmd Command
	switch ev.Kind {
	case cubetrainer.EventStateChanged:
		b.last = ev.Severity
		if ev.State == cubetrainer.StateInspecting {
			cmd = CmdSlowFlash
		}
	case cubetrainer.EventCountdown:
		if ev.Severity == cubetrainer.SeverityDanger && b.last != cubetrainer.SeverityDanger {
			cmd = CmdFlash
		}
		b.last = ev.Severity
	case cubetrainer.EventSolve:
		cmd = CmdToggleBacklight
	}
	b.mu.Unlock()

	if cmd == 0 {
		return
	}
	select {
	case b.queue <- cmd:
	default:
		b.logger.Warn().Stringer("command", cmd).Msg("backlight queue full, dropping command")
	}
}

// Run sends queued commands until ctx is done.
func (b *Backlight) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-b.queue:
			if err := b.sender.Send(cmd); err != nil {
				b.logger.Warn().Err(err).Stringer("command", cmd).Msg("backlight command failed")
				continue
			}
			b.logger.Debug().Stringer("command", cmd).Msg("backlight command sent")
		}
	}
}
