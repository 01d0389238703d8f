// Package export writes solve history as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SeamusWaldron/cubetrainer"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported formats.
var ErrUnknownFormat = errors.New("export: unknown format")

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DateLayout is the ISO-8601 timestamp layout with millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want json or csv)", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// DefaultFilename returns the conventional export file name.
func (f Format) DefaultFilename() string {
	return "solves" + f.Extension()
}

// exportedSolve is the on-disk shape of one record.
type exportedSolve struct {
	Time     float64 `json:"time"`
	Scramble string  `json:"scramble"`
	Date     string  `json:"date"`
	Session  string  `json:"session"`
}

func toExported(r cubetrainer.SolveRecord) exportedSolve {
	return exportedSolve{
		Time:     r.Time,
		Scramble: r.Scramble,
		Date:     r.Date.UTC().Format(DateLayout),
		Session:  r.Session,
	}
}

// Write writes records in the given format.
func Write(w io.Writer, f Format, records []cubetrainer.SolveRecord) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteJSON writes records as an indented JSON array, oldest first. An
// empty history is written as [].
func WriteJSON(w io.Writer, records []cubetrainer.SolveRecord) error {
	out := make([]exportedSolve, len(records))
	for i, r := range records {
		out[i] = toExported(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteCSV writes records with a time,scramble,date,session header.
func WriteCSV(w io.Writer, records []cubetrainer.SolveRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "scramble", "date", "session"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		e := toExported(r)
		row := []string{cubetrainer.FormatSeconds(e.Time), e.Scramble, e.Date, e.Session}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
