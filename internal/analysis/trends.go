package analysis

import (
	"math"
	"time"

	"github.com/SeamusWaldron/cubetrainer"
)

// Times returns the solve times in record order.
func Times(records []cubetrainer.SolveRecord) []float64 {
	times := make([]float64, len(records))
	for i, r := range records {
		times[i] = r.Time
	}
	return times
}

// Consistency returns the absolute difference between each solve and the
// one before it. The first entry is always 0.
func Consistency(records []cubetrainer.SolveRecord) []float64 {
	out := make([]float64, len(records))
	for i := 1; i < len(records); i++ {
		out[i] = round2(math.Abs(records[i].Time - records[i-1].Time))
	}
	return out
}

// RollingAverage returns, for every position i, the average of the last n
// solves ending at i (fewer at the start of the list).
func RollingAverage(n int, records []cubetrainer.SolveRecord) []float64 {
	out := make([]float64, len(records))
	if n <= 0 {
		return out
	}

	var sum float64
	for i, r := range records {
		sum += r.Time
		if i >= n {
			sum -= records[i-n].Time
		}
		window := min(i+1, n)
		out[i] = round2(sum / float64(window))
	}
	return out
}

// TrendReport summarizes a run of solves.
type TrendReport struct {
	TotalSolves int       `json:"total_solves"`
	DateRange   DateRange `json:"date_range"`

	Mean  Stat `json:"mean"`
	Best  Stat `json:"best"`
	Worst Stat `json:"worst"`

	// Improvement metrics
	ImprovementPct   float64 `json:"improvement_pct"`
	ConsistencyScore float64 `json:"consistency_score"`

	// Rolling averages (last 5, 12, 50, 100)
	RollingAvgs map[int]float64 `json:"rolling_averages"`
}

// DateRange represents a date range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AnalyzeTrends analyzes trends across solves given in record order.
func AnalyzeTrends(records []cubetrainer.SolveRecord) *TrendReport {
	report := &TrendReport{
		TotalSolves: len(records),
		RollingAvgs: make(map[int]float64),
	}

	if len(records) == 0 {
		return report
	}

	report.DateRange = DateRange{
		Start: records[0].Date.Format(time.RFC3339),
		End:   records[len(records)-1].Date.Format(time.RFC3339),
	}

	report.Mean = AverageOfLastN(len(records), records)
	report.Best = BestOf(records)
	report.Worst = WorstOf(records)

	report.ImprovementPct = calculateImprovement(records)
	report.ConsistencyScore = calculateConsistency(records)

	for _, n := range []int{5, 12, 50, 100} {
		if len(records) >= n {
			report.RollingAvgs[n] = AverageOfLastN(n, records).Value
		}
	}

	return report
}

// calculateImprovement compares the first quarter to the last quarter.
// Positive means the later solves are faster.
func calculateImprovement(records []cubetrainer.SolveRecord) float64 {
	if len(records) < 4 {
		return 0
	}

	quarterSize := len(records) / 4

	var firstSum float64
	for _, r := range records[:quarterSize] {
		firstSum += r.Time
	}
	firstAvg := firstSum / float64(quarterSize)

	var lastSum float64
	for _, r := range records[len(records)-quarterSize:] {
		lastSum += r.Time
	}
	lastAvg := lastSum / float64(quarterSize)

	if firstAvg <= 0 {
		return 0
	}

	return ((firstAvg - lastAvg) / firstAvg) * 100
}

// calculateConsistency converts the coefficient of variation into a
// 0-100 score, higher is more consistent.
func calculateConsistency(records []cubetrainer.SolveRecord) float64 {
	if len(records) < 2 {
		return 100
	}

	var sum float64
	for _, r := range records {
		sum += r.Time
	}
	mean := sum / float64(len(records))
	if mean <= 0 {
		return 100
	}

	var sumSquares float64
	for _, r := range records {
		diff := r.Time - mean
		sumSquares += diff * diff
	}
	stdDev := math.Sqrt(sumSquares / float64(len(records)))

	// CV of 0 = 100, CV of 0.5 = 50, CV of 1+ = 0
	score := 100 - (stdDev/mean)*100
	return math.Max(0, math.Min(100, score))
}
