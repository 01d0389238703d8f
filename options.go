package cubetrainer

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultRefreshInterval is how often a running timer republishes its
// elapsed time.
const DefaultRefreshInterval = 10 * time.Millisecond

// Option configures Timer behavior.
type Option func(*config)

type config struct {
	inspection        bool
	inspectionSeconds int
	refreshInterval   time.Duration
	scrambleLength    int
	sessionID         string

	clock     clockwork.Clock
	scheduler Scheduler
	generator *Generator
	logger    zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		inspection:        false,
		inspectionSeconds: InspectionSeconds,
		refreshInterval:   DefaultRefreshInterval,
		scrambleLength:    DefaultScrambleLength,
		logger:            zerolog.Nop(),
	}
}

// WithInspection makes the start/stop toggle begin an inspection countdown
// from idle instead of starting the timer directly.
func WithInspection(enabled bool) Option {
	return func(c *config) {
		c.inspection = enabled
	}
}

// WithInspectionSeconds overrides the inspection period. Non-positive
// values keep the 15 second default.
func WithInspectionSeconds(seconds int) Option {
	return func(c *config) {
		if seconds > 0 {
			c.inspectionSeconds = seconds
		}
	}
}

// WithRefreshInterval sets how often a running timer publishes elapsed
// time. Non-positive values keep the default.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.refreshInterval = d
		}
	}
}

// WithScrambleLength sets the length of generated scrambles.
// Non-positive values fall back to DefaultScrambleLength.
func WithScrambleLength(n int) Option {
	return func(c *config) {
		c.scrambleLength = n
	}
}

// WithSessionID sets the session identifier stamped on every record.
// By default a random UUID is used.
func WithSessionID(id string) Option {
	return func(c *config) {
		c.sessionID = id
	}
}

// WithClock sets the time source. Defaults to the real clock.
func WithClock(clock clockwork.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithScheduler sets the periodic task runner. Defaults to a
// ClockScheduler on the configured clock.
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithGenerator sets the scramble generator.
func WithGenerator(g *Generator) Option {
	return func(c *config) {
		c.generator = g
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func (c *config) fill() {
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.scheduler == nil {
		c.scheduler = NewClockScheduler(c.clock)
	}
	if c.generator == nil {
		c.generator = NewGenerator(nil)
	}
	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
	}
}
