package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUBETRAINER_DATA_DIR", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != StoreSQLite || cfg.Scramble.Length != 20 || cfg.Timer.InspectionSeconds != 15 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DBPath() != filepath.Join(dir, "trainer.db") {
		t.Errorf("DBPath = %s", cfg.DBPath())
	}
	if cfg.LogDir() != filepath.Join(dir, "logs") {
		t.Errorf("LogDir = %s", cfg.LogDir())
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUBETRAINER_DATA_DIR", dir)
	writeFile(t, filepath.Join(dir, "config.yaml"), `
store: file
log:
  level: debug
timer:
  refresh_interval: 50ms
scramble:
  length: 25
feed:
  addr: 127.0.0.1:9000
cube:
  name: GoCube_1234
  scan_timeout: 5s
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreFile || cfg.Log.Level != "debug" || cfg.Scramble.Length != 25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timer.RefreshInterval != 50*time.Millisecond || cfg.Cube.ScanTimeout != 5*time.Second {
		t.Errorf("durations = %v, %v", cfg.Timer.RefreshInterval, cfg.Cube.ScanTimeout)
	}
	if cfg.Timer.InspectionSeconds != 15 {
		t.Error("unset field lost its default")
	}
	if cfg.Feed.Addr != "127.0.0.1:9000" || cfg.Cube.Name != "GoCube_1234" {
		t.Errorf("feed/cube = %+v %+v", cfg.Feed, cfg.Cube)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUBETRAINER_DATA_DIR", dir)
	writeFile(t, filepath.Join(dir, "config.yaml"), "store: file\nscramble:\n  length: 25\n")
	t.Setenv("CUBETRAINER_STORE", "sqlite")
	t.Setenv("CUBETRAINER_SCRAMBLE_LENGTH", "30")
	t.Setenv("CUBETRAINER_DB", "/tmp/other.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreSQLite || cfg.Scramble.Length != 30 || cfg.DBPath() != "/tmp/other.db" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_BadEnvIntIgnored(t *testing.T) {
	t.Setenv("CUBETRAINER_DATA_DIR", t.TempDir())
	t.Setenv("CUBETRAINER_SCRAMBLE_LENGTH", "lots")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scramble.Length != 20 {
		t.Errorf("Scramble.Length = %d, want default", cfg.Scramble.Length)
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	t.Setenv("CUBETRAINER_DATA_DIR", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoad_InvalidStore(t *testing.T) {
	t.Setenv("CUBETRAINER_DATA_DIR", t.TempDir())
	t.Setenv("CUBETRAINER_STORE", "postgres")
	if _, err := Load(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUBETRAINER_DATA_DIR", dir)
	writeFile(t, filepath.Join(dir, "config.yaml"), "store: [unclosed\n")
	if _, err := Load(""); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_Inspection(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUBETRAINER_DATA_DIR", dir)
	writeFile(t, filepath.Join(dir, "config.yaml"), "timer:\n  inspection: true\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Timer.Inspection {
		t.Error("timer.inspection from file not applied")
	}

	t.Setenv("CUBETRAINER_INSPECTION", "false")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timer.Inspection {
		t.Error("CUBETRAINER_INSPECTION=false did not override the file")
	}
}
