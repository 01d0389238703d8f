// Package logging configures zerolog for the CLI and records timer
// activity to per-session JSON-lines files.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects where and how much to log.
type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string
	// Verbose forces debug level.
	Verbose bool
	// Console receives human-readable output. Nil means stderr.
	Console io.Writer
	// FileDir, when set, sends JSON lines to a new session file in this
	// directory instead of the console.
	FileDir string
}

// Log is a configured logger and the file it writes to, if any.
type Log struct {
	zerolog.Logger
	file *os.File
}

// Setup builds a logger and installs it as the zerolog global logger.
func Setup(opts Options) (*Log, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	l := &Log{}
	if opts.FileDir != "" {
		if err := os.MkdirAll(opts.FileDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		filename := fmt.Sprintf("session_%s.jsonl", time.Now().Format("20060102_150405"))
		file, err := os.Create(filepath.Join(opts.FileDir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		l.file = file
		l.Logger = zerolog.New(file).Level(level).With().Timestamp().Logger()
	} else {
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		l.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	}

	log.Logger = l.Logger
	return l, nil
}

// ParseLevel parses a level name. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// FilePath returns the session log path, or "" for console logging.
func (l *Log) FilePath() string {
	if l.file != nil {
		return l.file.Name()
	}
	return ""
}

// Close closes the session log file, if any.
func (l *Log) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
