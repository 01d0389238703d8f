package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/config"
	"github.com/SeamusWaldron/cubetrainer/internal/logging"
	"github.com/SeamusWaldron/cubetrainer/internal/session"
	"github.com/SeamusWaldron/cubetrainer/internal/storage"
)

// app is the wiring shared by every command: configuration, logging, and
// the persistence backends selected by config.
type app struct {
	cfg     *config.Config
	log     *logging.Log
	db      *storage.DB
	store   session.Store
	history session.History
}

type appOptions struct {
	// fileLog sends logs to a session file, for commands that own the
	// terminal.
	fileLog bool
	// console receives console logs. Nil means stderr.
	console io.Writer
}

func openApp(opts appOptions) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database = dbPath
		cfg.Store = config.StoreSQLite
	}

	logOpts := logging.Options{
		Level:   cfg.Log.Level,
		Verbose: verbose,
		Console: opts.console,
	}
	if opts.fileLog {
		logOpts.FileDir = cfg.LogDir()
	}
	l, err := logging.Setup(logOpts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: l}

	switch cfg.Store {
	case config.StoreFile:
		fs, err := session.NewFileStore(cfg.StateDir())
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to open state directory: %w", err)
		}
		a.store = fs
		a.history = session.NewKVHistory(fs)
	default:
		db, err := storage.Open(cfg.DBPath())
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		a.store = storage.NewKVStore(db)
		a.history = storage.NewSolveRepository(db)
	}

	a.logger().Debug().Str("store", cfg.Store).Str("data_dir", cfg.DataDir).Msg("app opened")
	return a, nil
}

func (a *app) logger() *zerolog.Logger {
	return &a.log.Logger
}

// newTimer builds a real-clock timer from config. Persisted settings are
// applied later by the controller.
func (a *app) newTimer(opts ...cubetrainer.Option) *cubetrainer.Timer {
	base := []cubetrainer.Option{
		cubetrainer.WithInspectionSeconds(a.cfg.Timer.InspectionSeconds),
		cubetrainer.WithRefreshInterval(a.cfg.Timer.RefreshInterval),
		cubetrainer.WithScrambleLength(a.cfg.Scramble.Length),
		cubetrainer.WithInspection(a.cfg.Timer.Inspection),
		cubetrainer.WithLogger(a.log.Logger),
	}
	return cubetrainer.NewTimer(append(base, opts...)...)
}

// newController builds a timer and the controller that owns it. Config
// values seed the settings until the user persists their own.
func (a *app) newController(opts ...cubetrainer.Option) *session.Controller {
	defaults := session.DefaultSettings()
	defaults.ScrambleLength = a.cfg.Scramble.Length
	defaults.Inspection = a.cfg.Timer.Inspection

	copts := []session.Option{
		session.WithLogger(a.log.Logger),
		session.WithDefaults(defaults),
	}
	if a.db != nil {
		copts = append(copts, session.WithResetter(a.db))
	}
	return session.NewController(a.newTimer(opts...), a.store, a.history, copts...)
}

func (a *app) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
	}
	if cerr := a.log.Close(); err == nil {
		err = cerr
	}
	return err
}
