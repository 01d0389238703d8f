package algorithms

import "math"

// StepProgress reports how many algorithms of a step are learned.
type StepProgress struct {
	Step    Step `json:"step"`
	Learned int  `json:"learned"`
	Total   int  `json:"total"`
	Percent int  `json:"percent"`
}

// Ratio returns the learned fraction in [0, 1].
func (p StepProgress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Learned) / float64(p.Total)
}

// ProgressFor counts favorites as learned and returns one entry per step
// in solving order. Percent is rounded to the nearest integer and is 0 for
// a step with no algorithms.
func ProgressFor(c *Catalog, favorites map[string]bool) []StepProgress {
	out := make([]StepProgress, 0, len(Steps))
	for _, step := range Steps {
		p := StepProgress{Step: step}
		for _, a := range c.ByStep(step) {
			p.Total++
			if favorites[a.ID] {
				p.Learned++
			}
		}
		if p.Total > 0 {
			p.Percent = int(math.Round(p.Ratio() * 100))
		}
		out = append(out, p)
	}
	return out
}
