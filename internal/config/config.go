// Package config loads trainer configuration from a YAML file, a .env
// file, and CUBETRAINER_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/storage"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the trainer configuration.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	Database string `yaml:"database"`
	Store    string `yaml:"store"`

	Log struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"log"`

	Timer struct {
		RefreshInterval   time.Duration `yaml:"refresh_interval"`
		Inspection        bool          `yaml:"inspection"`
		InspectionSeconds int           `yaml:"inspection_seconds"`
	} `yaml:"timer"`

	Scramble struct {
		Length int `yaml:"length"`
	} `yaml:"scramble"`

	Feed struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"feed"`

	Cube struct {
		Name        string        `yaml:"name"`
		ScanTimeout time.Duration `yaml:"scan_timeout"`
	} `yaml:"cube"`
}

// DefaultDataDir returns ~/.gocube_trainer without creating it.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, storage.DataDirName), nil
}

// Default returns the built-in configuration rooted at dataDir.
func Default(dataDir string) *Config {
	c := &Config{
		DataDir: dataDir,
		Store:   StoreSQLite,
	}
	c.Log.Level = "info"
	c.Timer.RefreshInterval = cubetrainer.DefaultRefreshInterval
	c.Timer.InspectionSeconds = cubetrainer.InspectionSeconds
	c.Scramble.Length = cubetrainer.DefaultScrambleLength
	c.Feed.Addr = "127.0.0.1:8765"
	c.Feed.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	c.Cube.ScanTimeout = 10 * time.Second
	return c
}

// Load builds the configuration. An explicit path must exist; with an
// empty path, <data dir>/config.yaml is read if present. A .env file in the
// working directory is loaded before environment overrides are applied.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	dataDir := getEnv("CUBETRAINER_DATA_DIR", "")
	if dataDir == "" {
		d, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = d
	}
	cfg := Default(dataDir)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Database = getEnv("CUBETRAINER_DB", c.Database)
	c.Store = getEnv("CUBETRAINER_STORE", c.Store)
	c.Log.Level = getEnv("CUBETRAINER_LOG_LEVEL", c.Log.Level)
	c.Feed.Addr = getEnv("CUBETRAINER_FEED_ADDR", c.Feed.Addr)
	c.Scramble.Length = getEnvAsInt("CUBETRAINER_SCRAMBLE_LENGTH", c.Scramble.Length)
	c.Timer.Inspection = getEnvAsBool("CUBETRAINER_INSPECTION", c.Timer.Inspection)
	c.Cube.Name = getEnv("CUBETRAINER_CUBE_NAME", c.Cube.Name)
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Store != StoreSQLite && c.Store != StoreFile {
		return fmt.Errorf("%w: store must be %q or %q, got %q", ErrInvalidConfig, StoreSQLite, StoreFile, c.Store)
	}
	if c.Scramble.Length < 1 || c.Scramble.Length > 100 {
		return fmt.Errorf("%w: scramble length %d", ErrInvalidConfig, c.Scramble.Length)
	}
	if c.Timer.RefreshInterval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive", ErrInvalidConfig)
	}
	if c.Timer.InspectionSeconds <= 0 {
		return fmt.Errorf("%w: inspection seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.DataDir, "trainer.db")
}

// StateDir returns the directory used by the file store.
func (c *Config) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}

// LogDir returns the directory for session log files.
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return c.Log.Dir
	}
	return filepath.Join(c.DataDir, "logs")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
