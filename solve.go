package cubetrainer

import (
	"fmt"
	"time"
)

// SolveRecord is a finished, timed attempt. Records are created only when a
// running timer is stopped and are never modified afterwards.
type SolveRecord struct {
	ID       string    `json:"id"`
	Time     float64   `json:"time"` // seconds, 2 decimal places
	Scramble string    `json:"scramble"`
	Date     time.Time `json:"date"`
	Session  string    `json:"session"`
}

// Duration returns the solve time as a time.Duration.
func (r SolveRecord) Duration() time.Duration {
	return time.Duration(r.Time*100+0.5) * 10 * time.Millisecond
}

// RoundSeconds converts an elapsed duration into seconds rounded half-up to
// centiseconds.
func RoundSeconds(d time.Duration) float64 {
	if d < 0 {
		d = 0
	}
	centis := (d + 5*time.Millisecond) / (10 * time.Millisecond)
	return float64(centis) / 100
}

// FormatSeconds renders seconds with two decimals, e.g. "12.34".
func FormatSeconds(sec float64) string {
	return fmt.Sprintf("%.2f", sec)
}

// FormatElapsed renders a running time for display. Times under a minute
// show as "12.34", longer ones as "1:05.23".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(10 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.2f", d.Seconds())
	}
	mins := int(d / time.Minute)
	secs := (d - time.Duration(mins)*time.Minute).Seconds()
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}
