package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetrainer"
)

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel(""); err != nil || l != zerolog.InfoLevel {
		t.Errorf("ParseLevel(\"\") = %v, %v", l, err)
	}
	if l, err := ParseLevel("DEBUG"); err != nil || l != zerolog.DebugLevel {
		t.Errorf("ParseLevel(DEBUG) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSetup_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(Options{Level: "warn", Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("console output = %q", out)
	}
	if l.FilePath() != "" {
		t.Error("console logger reported a file path")
	}
}

func TestSetup_VerboseOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(Options{Level: "error", Verbose: true, Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	l.Debug().Msg("debugging")
	if !strings.Contains(buf.String(), "debugging") {
		t.Error("verbose did not enable debug output")
	}
}

func TestSessionFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l, err := Setup(Options{FileDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	listen := TimerEvents(l.Logger)
	listen(cubetrainer.Event{Kind: cubetrainer.EventStateChanged, State: cubetrainer.StateRunning})
	listen(cubetrainer.Event{Kind: cubetrainer.EventElapsed, Elapsed: time.Second})
	listen(cubetrainer.Event{
		Kind:  cubetrainer.EventSolve,
		Solve: &cubetrainer.SolveRecord{ID: "abc", Time: 12.34, Scramble: "R U"},
	})
	path := l.FilePath()
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "session_") {
		t.Errorf("log path = %s", path)
	}

	entries, err := LoadSessionLog(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (refresh events are skipped)", len(entries))
	}
	if entries[0].Field("state") != "running" {
		t.Errorf("state field = %q", entries[0].Field("state"))
	}
	solve := entries[1]
	if solve.Message != "solve completed" || solve.Level != "info" || solve.Field("seconds") != "12.34" {
		t.Errorf("solve entry = %+v", solve)
	}
	if solve.Time.IsZero() {
		t.Error("entry has no timestamp")
	}

	logs, err := ListSessionLogs(dir)
	if err != nil || len(logs) != 1 {
		t.Errorf("ListSessionLogs = %v, %v", logs, err)
	}
}
