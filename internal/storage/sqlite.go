package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/claude/meetprep/internal/models"
)

// SQLiteStore keeps both logs in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := RunSQLiteMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("executing %s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveWeight(ctx context.Context, date string, weight float64) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bodyweight_log (date, weight) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET weight = excluded.weight`,
		date, weight)
	if err != nil {
		return fmt.Errorf("saving weight: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Weights(ctx context.Context) ([]models.BodyweightRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, weight FROM bodyweight_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying weights: %w", err)
	}
	defer rows.Close()

	var result []models.BodyweightRecord
	for rows.Next() {
		var r models.BodyweightRecord
		if err := rows.Scan(&r.Date, &r.Weight); err != nil {
			return nil, fmt.Errorf("scanning weight: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) ClearWeights(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bodyweight_log`); err != nil {
		return fmt.Errorf("clearing weights: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendTraining(ctx context.Context, e models.TrainingLogEntry) error {
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO training_log (date, exercise, weight, sets, reps, rpe, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date, e.Exercise, e.Weight, e.Sets, e.Reps, e.RPE, e.Note)
	if err != nil {
		return fmt.Errorf("inserting training entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Training(ctx context.Context, q TrainingQuery) ([]models.TrainingLogEntry, error) {
	dir := "DESC"
	if q.Order == OrderAsc {
		dir = "ASC"
	}
	query := `SELECT date, exercise, weight, sets, reps, rpe, note FROM training_log`
	var args []any
	if q.Exercise != "" {
		query += ` WHERE exercise = ?`
		args = append(args, q.Exercise)
	}
	query += ` ORDER BY date ` + dir + `, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying training log: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingLogEntry
	for rows.Next() {
		var e models.TrainingLogEntry
		if err := rows.Scan(&e.Date, &e.Exercise, &e.Weight, &e.Sets, &e.Reps, &e.RPE, &e.Note); err != nil {
			return nil, fmt.Errorf("scanning training entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) Exercises(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise FROM training_log GROUP BY exercise ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) ClearTraining(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM training_log`); err != nil {
		return fmt.Errorf("clearing training log: %w", err)
	}
	return nil
}
