package analysis

import (
	"encoding/json"
	"testing"

	"github.com/SeamusWaldron/cubetrainer"
)

func solves(times ...float64) []cubetrainer.SolveRecord {
	out := make([]cubetrainer.SolveRecord, len(times))
	for i, t := range times {
		out[i] = cubetrainer.SolveRecord{Time: t}
	}
	return out
}

func TestAverageOfLastN_Empty(t *testing.T) {
	got := AverageOfLastN(5, nil)
	if got.Valid {
		t.Errorf("AverageOfLastN(5, []) = %v, want unavailable", got.Value)
	}
	if got.String() != "--" {
		t.Errorf("String() = %q, want --", got.String())
	}
}

func TestAverageOfLastN_FewerThanN(t *testing.T) {
	got := AverageOfLastN(2, solves(10, 20))
	if !got.Valid || got.Value != 15 {
		t.Errorf("AverageOfLastN(2, [10 20]) = %+v, want 15", got)
	}
	if got.String() != "15.00" {
		t.Errorf("String() = %q, want 15.00", got.String())
	}

	got = AverageOfLastN(5, solves(10, 20))
	if got.Value != 15 {
		t.Errorf("AverageOfLastN(5, [10 20]) = %v, want 15", got.Value)
	}
}

func TestAverageOfLastN_TakesLastN(t *testing.T) {
	got := AverageOfLastN(3, solves(100, 100, 10, 11, 12))
	if got.Value != 11 {
		t.Errorf("AverageOfLastN(3, ...) = %v, want 11", got.Value)
	}
}

func TestAverageOfLastN_RoundsToCentiseconds(t *testing.T) {
	got := AverageOfLastN(3, solves(10, 10, 10.01))
	if got.Value != 10 {
		t.Errorf("AverageOfLastN = %v, want 10", got.Value)
	}
}

func TestAverageOfLastN_NonPositiveN(t *testing.T) {
	if got := AverageOfLastN(0, solves(10)); got.Valid {
		t.Error("AverageOfLastN(0, ...) should be unavailable")
	}
}

func TestAverageOfLastN_DoesNotMutate(t *testing.T) {
	in := solves(3, 1, 2)
	AverageOfLastN(2, in)
	BestOf(in)
	WorstOf(in)
	if in[0].Time != 3 || in[1].Time != 1 || in[2].Time != 2 {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestBestOf(t *testing.T) {
	got := BestOf(solves(12.34, 9.87))
	if !got.Valid || got.Value != 9.87 {
		t.Errorf("BestOf = %+v, want 9.87", got)
	}
	if BestOf(nil).Valid {
		t.Error("BestOf(nil) should be unavailable")
	}
}

func TestWorstOf(t *testing.T) {
	if got := WorstOf(solves(12.34, 9.87, 15)); got.Value != 15 {
		t.Errorf("WorstOf = %v, want 15", got.Value)
	}
	if WorstOf(nil).Valid {
		t.Error("WorstOf(nil) should be unavailable")
	}
}

func TestBuildDashboard(t *testing.T) {
	all := solves(20, 18, 16, 14, 12, 10)
	session := all[4:]

	d := BuildDashboard(all, session)
	if d.Ao5.Value != 14 {
		t.Errorf("Ao5 = %v, want 14", d.Ao5.Value)
	}
	if d.Ao12.Value != 15 {
		t.Errorf("Ao12 = %v, want 15", d.Ao12.Value)
	}
	if d.Best.Value != 10 || d.SessionBest.Value != 10 {
		t.Errorf("Best = %v, SessionBest = %v", d.Best, d.SessionBest)
	}
	if d.Total != 6 || d.SessionTotal != 2 {
		t.Errorf("Total = %d, SessionTotal = %d", d.Total, d.SessionTotal)
	}
}

func TestBuildDashboard_EmptySession(t *testing.T) {
	d := BuildDashboard(solves(12), nil)
	if d.SessionBest.Valid {
		t.Error("SessionBest should be unavailable with no session solves")
	}
	if d.SessionBest.String() != "--" {
		t.Errorf("SessionBest.String() = %q", d.SessionBest.String())
	}
}

func TestStatMarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Stat{"a": Available(9.87), "b": {}})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"a":9.87,"b":null}` {
		t.Errorf("json = %s", got)
	}
}

func TestStatUnmarshalJSON(t *testing.T) {
	var got map[string]Stat
	if err := json.Unmarshal([]byte(`{"a":9.87,"b":null}`), &got); err != nil {
		t.Fatal(err)
	}
	if got["a"] != Available(9.87) {
		t.Errorf("a = %+v", got["a"])
	}
	if got["b"].Valid {
		t.Errorf("b = %+v, want unavailable", got["b"])
	}
}
