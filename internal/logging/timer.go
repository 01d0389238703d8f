package logging

import (
	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetrainer"
)

// TimerEvents returns a Timer listener that logs transitions. Display
// refresh events are not logged.
func TimerEvents(logger zerolog.Logger) func(cubetrainer.Event) {
	return func(ev cubetrainer.Event) {
		switch ev.Kind {
		case cubetrainer.EventStateChanged:
			logger.Info().
				Str("event", ev.Kind.String()).
				Str("state", ev.State.String()).
				Msg("timer state changed")
		case cubetrainer.EventCountdown:
			logger.Debug().
				Str("event", ev.Kind.String()).
				Int("countdown", ev.Countdown).
				Str("severity", ev.Severity.String()).
				Msg("inspection countdown")
		case cubetrainer.EventScramble:
			logger.Info().
				Str("event", ev.Kind.String()).
				Str("scramble", ev.Scramble.String()).
				Msg("new scramble")
		case cubetrainer.EventSolve:
			logger.Info().
				Str("event", ev.Kind.String()).
				Str("solve_id", ev.Solve.ID).
				Float64("seconds", ev.Solve.Time).
				Str("scramble", ev.Solve.Scramble).
				Msg("solve completed")
		}
	}
}
