package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/meetprep/internal/models"
)

// PostgresStore wraps a pgxpool.Pool for deployments that share one database.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and pings it.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}

func (s *PostgresStore) SaveWeight(ctx context.Context, date string, weight float64) error {
	d, err := parseDate(date)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO bodyweight_log (date, weight) VALUES ($1, $2)
		 ON CONFLICT (date) DO UPDATE SET weight = EXCLUDED.weight`,
		d, weight)
	if err != nil {
		return fmt.Errorf("saving weight: %w", err)
	}
	return nil
}

func (s *PostgresStore) Weights(ctx context.Context) ([]models.BodyweightRecord, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT to_char(date, 'YYYY-MM-DD'), weight FROM bodyweight_log ORDER BY seq`)
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

func (s *PostgresStore) ClearWeights(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, `DELETE FROM bodyweight_log`); err != nil {
		return fmt.Errorf("clearing weights: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendTraining(ctx context.Context, e models.TrainingLogEntry) error {
	d, err := parseDate(e.Date)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO training_log (id, date, exercise, weight, sets, reps, rpe, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), d, e.Exercise, e.Weight, e.Sets, e.Reps, e.RPE, e.Note)
	if err != nil {
		return fmt.Errorf("inserting training entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Training(ctx context.Context, q TrainingQuery) ([]models.TrainingLogEntry, error) {
	dir := "DESC"
	if q.Order == OrderAsc {
		dir = "ASC"
	}
	query := `SELECT to_char(date, 'YYYY-MM-DD'), exercise, weight, sets, reps, rpe, note
		FROM training_log`
	var args []any
	if q.Exercise != "" {
		query += ` WHERE exercise = $1`
		args = append(args, q.Exercise)
	}
	query += ` ORDER BY date ` + dir + `, seq ASC`

	rows, err := s.Pool.Query(ctx, query, args...)
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

func (s *PostgresStore) Exercises(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT exercise FROM training_log GROUP BY exercise ORDER BY MIN(seq)`)
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

func (s *PostgresStore) ClearTraining(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, `DELETE FROM training_log`); err != nil {
		return fmt.Errorf("clearing training log: %w", err)
	}
	return nil
}
