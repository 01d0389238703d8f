package analysis

import (
	"encoding/json"
	"math"

	"github.com/SeamusWaldron/cubetrainer"
)

// Unavailable is shown in place of a statistic that has no data.
const Unavailable = "--"

// Stat is a statistic that may be unavailable. An unavailable Stat is
// never reported as zero.
type Stat struct {
	Value float64
	Valid bool
}

// Available returns a valid Stat holding v.
func Available(v float64) Stat {
	return Stat{Value: v, Valid: true}
}

// String renders the value with two decimals, or "--" when unavailable.
func (s Stat) String() string {
	if !s.Valid {
		return Unavailable
	}
	return cubetrainer.FormatSeconds(s.Value)
}

// MarshalJSON encodes an unavailable Stat as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes null as an unavailable Stat.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Stat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Available(v)
	return nil
}

// round2 rounds to centiseconds.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AverageOfLastN returns the mean time of the last n records, or of all
// records when there are fewer than n. The result is rounded to two
// decimals. It is unavailable for an empty list or a non-positive n.
func AverageOfLastN(n int, records []cubetrainer.SolveRecord) Stat {
	if n <= 0 || len(records) == 0 {
		return Stat{}
	}
	if n > len(records) {
		n = len(records)
	}

	var sum float64
	for _, r := range records[len(records)-n:] {
		sum += r.Time
	}
	return Available(round2(sum / float64(n)))
}

// BestOf returns the minimum time, or unavailable for an empty list.
func BestOf(records []cubetrainer.SolveRecord) Stat {
	if len(records) == 0 {
		return Stat{}
	}
	best := records[0].Time
	for _, r := range records[1:] {
		if r.Time < best {
			best = r.Time
		}
	}
	return Available(best)
}

// WorstOf returns the maximum time, or unavailable for an empty list.
func WorstOf(records []cubetrainer.SolveRecord) Stat {
	if len(records) == 0 {
		return Stat{}
	}
	worst := records[0].Time
	for _, r := range records[1:] {
		if r.Time > worst {
			worst = r.Time
		}
	}
	return Available(worst)
}

// Dashboard holds the headline statistics shown after every solve.
type Dashboard struct {
	Ao5          Stat `json:"ao5"`
	Ao12         Stat `json:"ao12"`
	Ao50         Stat `json:"ao50"`
	Ao100        Stat `json:"ao100"`
	Best         Stat `json:"best"`
	SessionBest  Stat `json:"session_best"`
	Total        int  `json:"total"`
	SessionTotal int  `json:"session_total"`
}

// BuildDashboard computes the dashboard. Rolling averages and the overall
// best come from all solves; the session best from the session list.
func BuildDashboard(all, session []cubetrainer.SolveRecord) Dashboard {
	return Dashboard{
		Ao5:          AverageOfLastN(5, all),
		Ao12:         AverageOfLastN(12, all),
		Ao50:         AverageOfLastN(50, all),
		Ao100:        AverageOfLastN(100, all),
		Best:         BestOf(all),
		SessionBest:  BestOf(session),
		Total:        len(all),
		SessionTotal: len(session),
	}
}
