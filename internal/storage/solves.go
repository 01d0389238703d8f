package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubetrainer"
)

// SolveRepository stores finished solves in insertion order.
type SolveRepository struct {
	db *DB
}

// NewSolveRepository creates a new solve repository.
func NewSolveRepository(db *DB) *SolveRepository {
	return &SolveRepository{db: db}
}

// Append stores a solve at the end of the history.
func (r *SolveRepository) Append(rec cubetrainer.SolveRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO solves (solve_id, time_seconds, scramble, solved_at, session_id)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Time, rec.Scramble, rec.Date.UTC().Format(time.RFC3339Nano), rec.Session)

	if err != nil {
		return fmt.Errorf("failed to append solve: %w", err)
	}
	return nil
}

// All returns every solve, oldest first.
func (r *SolveRepository) All() ([]cubetrainer.SolveRecord, error) {
	return r.query(`
		SELECT solve_id, time_seconds, scramble, solved_at, session_id
		FROM solves
		ORDER BY seq
	`)
}

// BySession returns the solves recorded under one session, oldest first.
func (r *SolveRepository) BySession(sessionID string) ([]cubetrainer.SolveRecord, error) {
	return r.query(`
		SELECT solve_id, time_seconds, scramble, solved_at, session_id
		FROM solves
		WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
}

// List returns the most recent solves, newest first.
func (r *SolveRepository) List(limit int) ([]cubetrainer.SolveRecord, error) {
	return r.query(`
		SELECT solve_id, time_seconds, scramble, solved_at, session_id
		FROM solves
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
}

// Get retrieves a solve by ID.
func (r *SolveRepository) Get(solveID string) (*cubetrainer.SolveRecord, error) {
	var rec cubetrainer.SolveRecord
	var solvedAt string

	err := r.db.QueryRow(`
		SELECT solve_id, time_seconds, scramble, solved_at, session_id
		FROM solves
		WHERE solve_id = ?
	`, solveID).Scan(&rec.ID, &rec.Time, &rec.Scramble, &solvedAt, &rec.Session)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solve: %w", err)
	}

	rec.Date, _ = time.Parse(time.RFC3339Nano, solvedAt)
	return &rec, nil
}

// Count returns the number of stored solves.
func (r *SolveRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM solves").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count solves: %w", err)
	}
	return count, nil
}

// Clear deletes every solve.
func (r *SolveRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM solves"); err != nil {
		return fmt.Errorf("failed to clear solves: %w", err)
	}
	return nil
}

func (r *SolveRepository) query(q string, args ...any) ([]cubetrainer.SolveRecord, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solves: %w", err)
	}
	defer rows.Close()

	var solves []cubetrainer.SolveRecord
	for rows.Next() {
		var rec cubetrainer.SolveRecord
		var solvedAt string

		if err := rows.Scan(&rec.ID, &rec.Time, &rec.Scramble, &solvedAt, &rec.Session); err != nil {
			return nil, fmt.Errorf("failed to scan solve: %w", err)
		}

		rec.Date, _ = time.Parse(time.RFC3339Nano, solvedAt)
		solves = append(solves, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate solves: %w", err)
	}

	return solves, nil
}
