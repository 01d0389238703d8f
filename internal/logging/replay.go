package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Entry is one line of a session log.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]any
}

// Field returns a field rendered with fmt, or "" when absent.
func (e Entry) Field(name string) string {
	v, ok := e.Fields[name]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// LoadSessionLog reads a JSON-lines session log.
func LoadSessionLog(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse entry at line %d: %w", lineNum, err)
		}

		e := Entry{Fields: raw}
		if v, ok := raw["time"].(string); ok {
			e.Time, _ = time.Parse(time.RFC3339, v)
		}
		e.Level, _ = raw["level"].(string)
		e.Message, _ = raw["message"].(string)
		delete(raw, "time")
		delete(raw, "level")
		delete(raw, "message")

		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	return entries, nil
}

// ListSessionLogs returns the session log files in dir, newest first.
func ListSessionLogs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "session_*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}
