package session

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/algorithms"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTimer() (*cubetrainer.Timer, *cubetrainer.ManualScheduler) {
	sched := cubetrainer.NewManualScheduler(clockwork.NewFakeClockAt(epoch))
	timer := cubetrainer.NewTimer(
		cubetrainer.WithClock(sched.Clock()),
		cubetrainer.WithScheduler(sched),
		cubetrainer.WithGenerator(cubetrainer.NewGenerator(rand.NewPCG(1, 2))),
		cubetrainer.WithSessionID("session-a"),
	)
	return timer, sched
}

func solve(timer *cubetrainer.Timer, sched *cubetrainer.ManualScheduler, d time.Duration) {
	timer.RequestStart()
	sched.Advance(d)
	timer.RequestStop()
}

func TestController_RecordsSolves(t *testing.T) {
	timer, sched := newTimer()
	history := NewMemoryHistory()
	c := NewController(timer, NewMemoryStore(), history)
	defer c.Close()

	var updates []Update
	c.Subscribe(func(u Update) { updates = append(updates, u) })

	solve(timer, sched, 12*time.Second)
	solve(timer, sched, 10*time.Second)

	if got := len(c.Solves()); got != 2 {
		t.Fatalf("Solves = %d, want 2", got)
	}
	if got := len(c.SessionSolves()); got != 2 {
		t.Errorf("SessionSolves = %d, want 2", got)
	}
	persisted, _ := history.All()
	if len(persisted) != 2 {
		t.Errorf("history has %d records, want 2", len(persisted))
	}

	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}
	last := updates[1]
	if last.Solve == nil || last.Solve.Time != 10 {
		t.Errorf("last update solve = %+v", last.Solve)
	}
	if last.Dashboard.Best.Value != 10 || last.Dashboard.Ao5.Value != 11 || last.Dashboard.Total != 2 {
		t.Errorf("dashboard = %+v", last.Dashboard)
	}
}

func TestController_LoadsHistoryButNotIntoSession(t *testing.T) {
	history := NewMemoryHistory()
	history.Append(cubetrainer.SolveRecord{ID: "old", Time: 9.5, Session: "earlier"})

	timer, sched := newTimer()
	c := NewController(timer, NewMemoryStore(), history)
	defer c.Close()

	d := c.Dashboard()
	if d.Total != 1 || d.SessionTotal != 0 || d.SessionBest.Valid {
		t.Errorf("dashboard before solving = %+v", d)
	}

	solve(timer, sched, 11*time.Second)
	d = c.Dashboard()
	if d.Best.Value != 9.5 || d.SessionBest.Value != 11 {
		t.Errorf("Best = %v, SessionBest = %v", d.Best, d.SessionBest)
	}
}

func TestController_Recent(t *testing.T) {
	timer, sched := newTimer()
	c := NewController(timer, NewMemoryStore(), NewMemoryHistory())
	defer c.Close()

	for i := 1; i <= 4; i++ {
		solve(timer, sched, time.Duration(i)*time.Second)
	}

	recent := c.Recent(3)
	if len(recent) != 3 || recent[0].Time != 4 || recent[2].Time != 2 {
		t.Errorf("Recent(3) = %+v", recent)
	}
	if len(c.Recent(10)) != 4 {
		t.Error("Recent(10) should return every solve")
	}
	if c.Recent(0) != nil {
		t.Error("Recent(0) should be empty")
	}
}

func TestController_Reset(t *testing.T) {
	timer, sched := newTimer()
	store := NewMemoryStore()
	history := NewKVHistory(store)
	c := NewController(timer, store, history)
	defer c.Close()

	solve(timer, sched, 5*time.Second)
	if _, err := c.ToggleFavorite("pll-t"); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateSettings(func(s *Settings) error { s.Theme = ThemeLight; return nil }); err != nil {
		t.Fatal(err)
	}

	var reset bool
	c.Subscribe(func(u Update) { reset = u.Reset })

	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !reset {
		t.Error("Reset did not publish an update")
	}
	if len(c.Solves()) != 0 || len(c.SessionSolves()) != 0 || len(c.Favorites()) != 0 {
		t.Error("Reset left solves or favorites in memory")
	}
	if all, _ := history.All(); len(all) != 0 {
		t.Error("Reset left solves in history")
	}
	if c.Settings().Theme != ThemeLight {
		t.Error("Reset should keep settings")
	}

	// A fresh controller on the same store sees the reset state.
	timer2, _ := newTimer()
	c2 := NewController(timer2, store, NewKVHistory(store))
	defer c2.Close()
	if len(c2.Solves()) != 0 || c2.IsFavorite("pll-t") || c2.Settings().Theme != ThemeLight {
		t.Error("persisted state does not match reset")
	}
}

// brokenStore fails Clear and behaves normally otherwise.
type brokenStore struct {
	*MemoryStore
}

func (brokenStore) Clear() error {
	return errors.New("disk full")
}

func TestController_ResetFailureKeepsMemoryInStep(t *testing.T) {
	timer, sched := newTimer()
	store := brokenStore{NewMemoryStore()}
	history := NewMemoryHistory()
	c := NewController(timer, store, history)
	defer c.Close()

	solve(timer, sched, 5*time.Second)
	if _, err := c.ToggleFavorite("pll-t"); err != nil {
		t.Fatal(err)
	}

	var reset bool
	c.Subscribe(func(u Update) { reset = u.Reset })

	if err := c.Reset(); err == nil {
		t.Fatal("Reset succeeded, want error")
	}

	persisted, _ := history.All()
	if len(c.Solves()) != len(persisted) || c.Dashboard().Total != len(persisted) {
		t.Errorf("memory solves = %d, dashboard total = %d, persisted = %d",
			len(c.Solves()), c.Dashboard().Total, len(persisted))
	}
	if !reset {
		t.Error("cleared solves were not published")
	}

	// The store was not cleared, so the favorite stays on both sides.
	if !c.IsFavorite("pll-t") {
		t.Error("favorite dropped from memory but kept in the store")
	}
	if _, ok, _ := store.Load(KeyFavorites); !ok {
		t.Error("favorites missing from the store")
	}
}

// fakeResetter clears a memory backend in one call, or fails without
// touching it.
type fakeResetter struct {
	store   *MemoryStore
	history *MemoryHistory
	err     error
	keep    map[string][]byte
}

func (r *fakeResetter) Reset(keep map[string][]byte) error {
	if r.err != nil {
		return r.err
	}
	r.keep = keep
	r.history.Clear()
	r.store.Clear()
	for k, v := range keep {
		r.store.Save(k, v)
	}
	return nil
}

func TestController_ResetUsesResetter(t *testing.T) {
	timer, sched := newTimer()
	store := NewMemoryStore()
	history := NewMemoryHistory()
	r := &fakeResetter{store: store, history: history}
	c := NewController(timer, store, history, WithResetter(r))
	defer c.Close()

	solve(timer, sched, 5*time.Second)
	c.ToggleFavorite("pll-t")
	c.SwitchStep(algorithms.StepOLL)

	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(c.Solves()) != 0 || len(c.Favorites()) != 0 {
		t.Error("Reset left solves or favorites in memory")
	}
	if _, ok := r.keep[KeySettings]; !ok {
		t.Error("settings not passed to the resetter")
	}
	if string(r.keep[KeyStep]) != `"oll"` {
		t.Errorf("kept step = %s", r.keep[KeyStep])
	}
}

func TestController_ResetterFailureChangesNothing(t *testing.T) {
	timer, sched := newTimer()
	store := NewMemoryStore()
	history := NewMemoryHistory()
	r := &fakeResetter{store: store, history: history, err: errors.New("locked")}
	c := NewController(timer, store, history, WithResetter(r))
	defer c.Close()

	solve(timer, sched, 5*time.Second)
	c.ToggleFavorite("pll-t")

	if err := c.Reset(); err == nil {
		t.Fatal("Reset succeeded, want error")
	}
	if persisted, _ := history.All(); len(persisted) != 1 || len(c.Solves()) != 1 {
		t.Errorf("persisted = %d, memory = %d, want 1 and 1", len(persisted), len(c.Solves()))
	}
	if !c.IsFavorite("pll-t") {
		t.Error("favorite cleared after failed reset")
	}
}

func TestController_DefaultsSeedSettings(t *testing.T) {
	timer, _ := newTimer()
	defaults := DefaultSettings()
	defaults.ScrambleLength = 30
	defaults.Inspection = true
	c := NewController(timer, NewMemoryStore(), NewMemoryHistory(), WithDefaults(defaults))
	defer c.Close()

	if got := c.Settings(); got.ScrambleLength != 30 || !got.Inspection {
		t.Errorf("settings = %+v", got)
	}
	timer.RequestNewScramble()
	if got := timer.Scramble().Len(); got != 30 {
		t.Errorf("scramble length = %d, want 30", got)
	}
	if !timer.Inspection() {
		t.Error("timer inspection not enabled")
	}
}

func TestController_PersistedSettingsBeatDefaults(t *testing.T) {
	store := NewMemoryStore()
	store.Save(KeySettings, []byte(`{"scramble_length":12}`))

	timer, _ := newTimer()
	defaults := DefaultSettings()
	defaults.ScrambleLength = 30
	defaults.Theme = ThemeLight
	c := NewController(timer, store, NewMemoryHistory(), WithDefaults(defaults))
	defer c.Close()

	s := c.Settings()
	if s.ScrambleLength != 12 || s.Theme != ThemeLight {
		t.Errorf("settings = %+v, want length 12 over light defaults", s)
	}
}

func TestController_InvalidDefaultsFallBack(t *testing.T) {
	timer, _ := newTimer()
	defaults := DefaultSettings()
	defaults.ScrambleLength = 0
	c := NewController(timer, NewMemoryStore(), NewMemoryHistory(), WithDefaults(defaults))
	defer c.Close()

	if got := c.Settings().ScrambleLength; got != cubetrainer.DefaultScrambleLength {
		t.Errorf("ScrambleLength = %d, want %d", got, cubetrainer.DefaultScrambleLength)
	}
}

func TestController_SettingsApplyToTimer(t *testing.T) {
	timer, sched := newTimer()
	c := NewController(timer, NewMemoryStore(), NewMemoryHistory())
	defer c.Close()

	err := c.UpdateSettings(func(s *Settings) error {
		s.Inspection = true
		s.ScrambleLength = 15
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	timer.RequestNewScramble()
	if got := timer.Scramble().Len(); got != 15 {
		t.Errorf("scramble length = %d, want 15", got)
	}
	timer.Toggle()
	if timer.State() != cubetrainer.StateInspecting {
		t.Errorf("state = %s, want inspecting", timer.State())
	}
	sched.Advance(20 * time.Second)
	timer.Toggle()
}

func TestController_UpdateSettingsRejectsInvalid(t *testing.T) {
	timer, _ := newTimer()
	c := NewController(timer, NewMemoryStore(), NewMemoryHistory())
	defer c.Close()

	err := c.UpdateSettings(func(s *Settings) error { s.ScrambleLength = 0; return nil })
	if !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("error = %v, want ErrInvalidSetting", err)
	}
	if c.Settings().ScrambleLength != cubetrainer.DefaultScrambleLength {
		t.Error("invalid settings were applied")
	}
}

func TestController_SettingsPersist(t *testing.T) {
	store := NewMemoryStore()
	timer, _ := newTimer()
	c := NewController(timer, store, NewMemoryHistory())
	c.UpdateSettings(func(s *Settings) error { return s.Set("inspection", "true") })
	c.Close()

	timer2, _ := newTimer()
	c2 := NewController(timer2, store, NewMemoryHistory())
	defer c2.Close()
	if !c2.Settings().Inspection || !timer2.Inspection() {
		t.Error("inspection setting was not restored")
	}
}

func TestController_CorruptStateDegrades(t *testing.T) {
	store := NewMemoryStore()
	store.Save(KeySolves, []byte("{not json"))
	store.Save(KeySettings, []byte(`{"theme":"purple"}`))
	store.Save(KeyFavorites, []byte(`42`))
	store.Save(KeyStep, []byte(`"roux"`))

	timer, sched := newTimer()
	history := NewKVHistory(store)
	c := NewController(timer, store, history)
	defer c.Close()

	if len(c.Solves()) != 0 {
		t.Error("corrupt history should load as empty")
	}
	if c.Settings() != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", c.Settings())
	}
	if len(c.Favorites()) != 0 || c.Step() != algorithms.StepCross {
		t.Error("corrupt favorites or step were not replaced by defaults")
	}

	// Recording still works and replaces the corrupt list.
	solve(timer, sched, 3*time.Second)
	all, err := NewKVHistory(store).All()
	if err != nil || len(all) != 1 {
		t.Errorf("history after solve = %d records, %v", len(all), err)
	}
}

func TestController_PartialSettingsKeepDefaults(t *testing.T) {
	store := NewMemoryStore()
	store.Save(KeySettings, []byte(`{"theme":"light"}`))

	timer, _ := newTimer()
	c := NewController(timer, store, NewMemoryHistory())
	defer c.Close()

	s := c.Settings()
	if s.Theme != ThemeLight || !s.Animations || s.ScrambleLength != 20 {
		t.Errorf("settings = %+v", s)
	}
}

func TestController_FavoritesAndProgress(t *testing.T) {
	timer, _ := newTimer()
	store := NewMemoryStore()
	c := NewController(timer, store, NewMemoryHistory())
	defer c.Close()

	on, err := c.ToggleFavorite("oll-21-sune")
	if err != nil || !on {
		t.Fatalf("ToggleFavorite = %v, %v", on, err)
	}
	if !c.IsFavorite("oll-21-sune") {
		t.Error("IsFavorite = false after toggle")
	}

	var oll algorithms.StepProgress
	for _, p := range c.Progress() {
		if p.Step == algorithms.StepOLL {
			oll = p
		}
	}
	if oll.Learned != 1 || oll.Total == 0 {
		t.Errorf("oll progress = %+v", oll)
	}

	off, _ := c.ToggleFavorite("oll-21-sune")
	if off || c.IsFavorite("oll-21-sune") {
		t.Error("second toggle did not clear favorite")
	}

	if _, err := c.ToggleFavorite("missing"); !errors.Is(err, algorithms.ErrUnknownAlgorithm) {
		t.Errorf("ToggleFavorite(missing) error = %v", err)
	}
}

func TestController_SwitchStep(t *testing.T) {
	timer, _ := newTimer()
	store := NewMemoryStore()
	c := NewController(timer, store, NewMemoryHistory())

	if err := c.SwitchStep(algorithms.StepPLL); err != nil {
		t.Fatal(err)
	}
	if err := c.SwitchStep("zz"); !errors.Is(err, algorithms.ErrUnknownStep) {
		t.Errorf("SwitchStep(zz) error = %v", err)
	}
	c.Close()

	timer2, _ := newTimer()
	c2 := NewController(timer2, store, NewMemoryHistory())
	defer c2.Close()
	if c2.Step() != algorithms.StepPLL {
		t.Errorf("restored step = %s, want pll", c2.Step())
	}
}

func TestController_CloseStopsRecording(t *testing.T) {
	timer, sched := newTimer()
	c := NewController(timer, NewMemoryStore(), NewMemoryHistory())
	c.Close()

	solve(timer, sched, time.Second)
	if len(c.Solves()) != 0 {
		t.Error("closed controller recorded a solve")
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := fs.Load("settings"); ok || err != nil {
		t.Fatalf("Load(missing) = %v, %v", ok, err)
	}
	if err := fs.Save("settings", []byte(`{"theme":"dark"}`)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save("settings", []byte(`{"theme":"light"}`)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := fs.Load("settings")
	if err != nil || !ok || string(v) != `{"theme":"light"}` {
		t.Errorf("Load = %s, %v, %v", v, ok, err)
	}

	if err := fs.Save("../escape", []byte(`1`)); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Save(../escape) error = %v, want ErrInvalidKey", err)
	}
	if err := fs.Save("bad", []byte(`{`)); !errors.Is(err, ErrNotJSON) {
		t.Errorf("Save(invalid json) error = %v, want ErrNotJSON", err)
	}

	if err := fs.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := fs.Load("settings"); ok {
		t.Error("key survived Clear")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Clear left %d files", len(entries))
	}
}

func TestKVHistory_OnFileStore(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := NewKVHistory(fs)

	rec := cubetrainer.SolveRecord{ID: "a", Time: 12.34, Scramble: "R U", Date: epoch, Session: "s"}
	if err := h.Append(rec); err != nil {
		t.Fatal(err)
	}

	all, err := NewKVHistory(fs).All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].ID != "a" || all[0].Time != 12.34 || !all[0].Date.Equal(epoch) {
		t.Errorf("All = %+v", all)
	}
}

func TestKVHistory_CorruptReportedOnce(t *testing.T) {
	store := NewMemoryStore()
	store.Save(KeySolves, []byte("nope"))
	h := NewKVHistory(store)

	if _, err := h.All(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("first All error = %v, want ErrCorrupt", err)
	}
	if all, err := h.All(); err != nil || len(all) != 0 {
		t.Errorf("second All = %v, %v", all, err)
	}
}

func TestSettingsSet(t *testing.T) {
	s := DefaultSettings()
	for key, value := range map[string]string{
		"theme":           "LIGHT",
		"animations":      "false",
		"notation":        "SiGN",
		"inspection":      "true",
		"scramble_length": "25",
	} {
		if err := s.Set(key, value); err != nil {
			t.Errorf("Set(%s, %s): %v", key, value, err)
		}
	}
	want := Settings{Theme: ThemeLight, Animations: false, Notation: "SiGN", Inspection: true, ScrambleLength: 25}
	if s != want {
		t.Errorf("settings = %+v, want %+v", s, want)
	}

	if err := s.Set("volume", "11"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("Set(volume) error = %v", err)
	}
	if err := s.Set("scramble_length", "0"); !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("Set(scramble_length, 0) error = %v", err)
	}
	if err := s.Set("theme", "blue"); !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("Set(theme, blue) error = %v", err)
	}

	for _, key := range SettingKeys {
		if _, err := s.Get(key); err != nil {
			t.Errorf("Get(%s): %v", key, err)
		}
	}
}
