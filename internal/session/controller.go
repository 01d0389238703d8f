// Package session holds the trainer's application state: solve history,
// settings, and algorithm favorites, wired to a Timer.
package session

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/algorithms"
	"github.com/SeamusWaldron/cubetrainer/internal/analysis"
)

// Update is published after every recorded solve and after Reset.
type Update struct {
	Solve     *cubetrainer.SolveRecord // nil for a reset
	Dashboard analysis.Dashboard
	Reset     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithCatalog replaces the built-in algorithm catalog.
func WithCatalog(cat *algorithms.Catalog) Option {
	return func(c *Controller) {
		c.catalog = cat
	}
}

// WithDefaults sets the settings used when none are persisted, and the
// base that partially persisted settings are decoded onto. Invalid
// defaults are logged and replaced by DefaultSettings.
func WithDefaults(s Settings) Option {
	return func(c *Controller) {
		c.defaults = s
	}
}

// WithResetter makes Reset clear persisted state through r in one step
// instead of clearing the history and the store separately.
func WithResetter(r Resetter) Option {
	return func(c *Controller) {
		c.resetter = r
	}
}

// Controller owns the application state. Solve records arrive from the
// Timer, are appended to both the all-time and session lists, checkpointed
// to the History, and published to subscribers.
type Controller struct {
	timer    *cubetrainer.Timer
	store    Store
	history  History
	resetter Resetter
	catalog  *algorithms.Catalog
	logger   zerolog.Logger
	defaults Settings
	unsub    func()

	mu        sync.RWMutex
	solves    []cubetrainer.SolveRecord
	session   []cubetrainer.SolveRecord
	settings  Settings
	favorites map[string]bool
	step      algorithms.Step

	listenerMu sync.Mutex
	listeners  map[int]func(Update)
	nextID     int
}

// NewController loads persisted state and subscribes to timer. Missing or
// corrupt persisted data is logged and replaced by defaults.
func NewController(timer *cubetrainer.Timer, store Store, history History, opts ...Option) *Controller {
	c := &Controller{
		timer:     timer,
		store:     store,
		history:   history,
		catalog:   algorithms.Default(),
		logger:    zerolog.Nop(),
		defaults:  DefaultSettings(),
		favorites: make(map[string]bool),
		step:      algorithms.StepCross,
		listeners: make(map[int]func(Update)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.defaults.Validate(); err != nil {
		c.logger.Warn().Err(err).Msg("default settings invalid, using built-in defaults")
		c.defaults = DefaultSettings()
	}
	c.settings = c.defaults

	c.load()
	c.applySettings(c.settings)
	c.unsub = timer.Subscribe(c.onTimerEvent)

	return c
}

func (c *Controller) load() {
	if records, err := c.history.All(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to load solve history, starting empty")
	} else {
		c.solves = records
	}

	var settings Settings
	if decodeKey(c, KeySettings, &settings, c.defaults) {
		if err := settings.Validate(); err != nil {
			c.logger.Warn().Err(err).Msg("persisted settings invalid, using defaults")
		} else {
			c.settings = settings
		}
	}

	var favorites []string
	if decodeKey(c, KeyFavorites, &favorites, nil) {
		for _, id := range favorites {
			c.favorites[id] = true
		}
	}

	var step string
	if decodeKey(c, KeyStep, &step, "") {
		if s, err := algorithms.ParseStep(step); err == nil {
			c.step = s
		} else {
			c.logger.Warn().Err(err).Msg("persisted step invalid, using cross")
		}
	}

	c.logger.Debug().
		Int("solves", len(c.solves)).
		Int("favorites", len(c.favorites)).
		Str("step", string(c.step)).
		Msg("session state loaded")
}

// decodeKey decodes key into dst, which is first reset to def. It reports
// whether a valid value was found.
func decodeKey[T any](c *Controller, key string, dst *T, def T) bool {
	*dst = def
	data, ok, err := c.store.Load(key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to load persisted state")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn().Err(fmt.Errorf("%w: %v", ErrCorrupt, err)).Str("key", key).Msg("ignoring corrupt persisted state")
		*dst = def
		return false
	}
	return true
}

func (c *Controller) saveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.store.Save(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// onTimerEvent runs under the timer's lock and must not call the timer.
func (c *Controller) onTimerEvent(ev cubetrainer.Event) {
	if ev.Kind != cubetrainer.EventSolve || ev.Solve == nil {
		return
	}
	rec := *ev.Solve

	c.mu.Lock()
	c.solves = append(c.solves, rec)
	c.session = append(c.session, rec)
	dash := analysis.BuildDashboard(c.solves, c.session)
	c.mu.Unlock()

	if err := c.history.Append(rec); err != nil {
		c.logger.Error().Err(err).Str("solve_id", rec.ID).Msg("failed to persist solve")
	}

	c.publish(Update{Solve: &rec, Dashboard: dash})
}

// Subscribe registers fn for controller updates and returns a function
// that removes it. fn is called synchronously and must not block.
func (c *Controller) Subscribe(fn func(Update)) (unsubscribe func()) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners[id] = fn

	return func() {
		c.listenerMu.Lock()
		defer c.listenerMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Controller) publish(u Update) {
	c.listenerMu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Update), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.listenerMu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}

// Timer returns the controlled timer.
func (c *Controller) Timer() *cubetrainer.Timer {
	return c.timer
}

// Catalog returns the algorithm catalog.
func (c *Controller) Catalog() *algorithms.Catalog {
	return c.catalog
}

// Dashboard computes the current statistics.
func (c *Controller) Dashboard() analysis.Dashboard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return analysis.BuildDashboard(c.solves, c.session)
}

// Solves returns every solve, oldest first.
func (c *Controller) Solves() []cubetrainer.SolveRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.solves)
}

// SessionSolves returns the solves recorded by this process, oldest first.
func (c *Controller) SessionSolves() []cubetrainer.SolveRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.session)
}

// Recent returns up to n solves, newest first.
func (c *Controller) Recent(n int) []cubetrainer.SolveRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	n = min(n, len(c.solves))
	out := slices.Clone(c.solves[len(c.solves)-n:])
	slices.Reverse(out)
	return out
}

// Reset clears all solves and favorites, in memory and persisted.
// Settings and the current step are kept. In-memory state is only cleared
// for what the backend actually cleared, so a failed reset never leaves the
// dashboard reporting solves that are gone from disk, or the reverse.
func (c *Controller) Reset() error {
	changed, err := c.reset()
	if err != nil {
		c.logger.Error().Err(err).Bool("partial", changed).Msg("reset failed")
	} else {
		c.logger.Info().Msg("all solves and favorites reset")
	}
	if changed {
		c.publish(Update{Dashboard: c.Dashboard(), Reset: true})
	}
	return err
}

// reset reports whether any in-memory state was cleared.
func (c *Controller) reset() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keep, err := c.keptState()
	if err != nil {
		return false, err
	}

	if c.resetter != nil {
		if err := c.resetter.Reset(keep); err != nil {
			return false, fmt.Errorf("failed to reset storage: %w", err)
		}
		c.solves, c.session = nil, nil
		clear(c.favorites)
		return true, nil
	}

	if err := c.history.Clear(); err != nil {
		return false, fmt.Errorf("failed to clear history: %w", err)
	}
	c.solves, c.session = nil, nil

	if err := c.store.Clear(); err != nil {
		return true, fmt.Errorf("failed to clear store: %w", err)
	}
	clear(c.favorites)

	for _, key := range []string{KeySettings, KeyStep} {
		if err := c.store.Save(key, keep[key]); err != nil {
			return true, fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return true, nil
}

// keptState encodes what survives a reset. The caller must hold c.mu.
func (c *Controller) keptState() (map[string][]byte, error) {
	settings, err := json.Marshal(c.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", KeySettings, err)
	}
	step, err := json.Marshal(c.step)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", KeyStep, err)
	}
	return map[string][]byte{KeySettings: settings, KeyStep: step}, nil
}

// Settings returns the current settings.
func (c *Controller) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// UpdateSettings applies fn to a copy of the settings, validates and
// persists the result. Timer-related settings apply from the next attempt.
func (c *Controller) UpdateSettings(fn func(*Settings) error) error {
	c.mu.Lock()
	next := c.settings
	if err := fn(&next); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.saveJSON(KeySettings, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.settings = next
	c.mu.Unlock()

	c.applySettings(next)
	return nil
}

// applySettings pushes timer settings. It must not be called with c.mu
// held, because timer listeners take c.mu under the timer's lock.
func (c *Controller) applySettings(s Settings) {
	c.timer.SetInspection(s.Inspection)
	c.timer.SetScrambleLength(s.ScrambleLength)
}

// Step returns the current CFOP step.
func (c *Controller) Step() algorithms.Step {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.step
}

// SwitchStep selects and persists the current CFOP step.
func (c *Controller) SwitchStep(step algorithms.Step) error {
	if _, err := algorithms.ParseStep(string(step)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.saveJSON(KeyStep, step); err != nil {
		return err
	}
	c.step = step
	return nil
}

// IsFavorite reports whether an algorithm is marked as learned.
func (c *Controller) IsFavorite(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.favorites[id]
}

// Favorites returns the IDs of learned algorithms, sorted.
func (c *Controller) Favorites() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.favoriteIDs()
}

// favoriteIDs must be called with c.mu held.
func (c *Controller) favoriteIDs() []string {
	ids := make([]string, 0, len(c.favorites))
	for id := range c.favorites {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ToggleFavorite flips an algorithm's learned mark and returns the new
// value.
func (c *Controller) ToggleFavorite(id string) (bool, error) {
	if _, err := c.catalog.Get(id); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.favorites[id] {
		delete(c.favorites, id)
	} else {
		c.favorites[id] = true
	}
	now := c.favorites[id]

	if err := c.saveJSON(KeyFavorites, c.favoriteIDs()); err != nil {
		// Roll back so memory matches the store.
		if now {
			delete(c.favorites, id)
		} else {
			c.favorites[id] = true
		}
		return !now, err
	}
	return now, nil
}

// Progress returns learned/total per CFOP step.
func (c *Controller) Progress() []algorithms.StepProgress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return algorithms.ProgressFor(c.catalog, c.favorites)
}

// Close detaches from the timer.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}
