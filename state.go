package cubetrainer

// State is the timer's position in the inspection/solve cycle.
type State int

const (
	// StateIdle waits for a start or inspection request.
	StateIdle State = iota

	// StateInspecting counts down the inspection period. Start/stop input
	// is ignored until the countdown expires and the timer starts itself.
	StateInspecting

	// StateRunning measures a solve until it is explicitly stopped.
	StateRunning
)

// String returns a short identifier for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInspecting:
		return "inspecting"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the state.
func (s State) DisplayName() string {
	switch s {
	case StateIdle:
		return "Ready"
	case StateInspecting:
		return "Inspection"
	case StateRunning:
		return "Solving"
	default:
		return "Unknown"
	}
}

// InspectionSeconds is the WCA inspection period.
const InspectionSeconds = 15

// Severity is a display hint for the inspection countdown. It is not a
// separate state.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityDanger
)

// String returns a short identifier for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// SeverityFor maps seconds remaining to a severity tier:
// n <= 5 is danger, 5 < n <= 10 is warning, anything above is normal.
func SeverityFor(remaining int) Severity {
	switch {
	case remaining <= 5:
		return SeverityDanger
	case remaining <= 10:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
