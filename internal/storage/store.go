package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/meetprep/internal/models"
)

var (
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, want YYYY-MM-DD")
	// ErrUnknownDriver is returned by Open for an unsupported storage driver.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Order is the date ordering of training log reads.
type Order string

const (
	// OrderDesc lists newest dates first, for the log viewer.
	OrderDesc Order = "desc"
	// OrderAsc lists oldest dates first, for trend charts.
	OrderAsc Order = "asc"
)

// ParseOrder accepts "asc" and "desc"; empty means desc.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc":
		return OrderDesc, nil
	case "asc":
		return OrderAsc, nil
	}
	return "", fmt.Errorf("unknown order %q", s)
}

// TrainingQuery selects training log rows. An empty Exercise selects all rows.
type TrainingQuery struct {
	Exercise string
	Order    Order
}

// BodyweightLog stores one weight per calendar date.
type BodyweightLog interface {
	// SaveWeight overwrites the weight for date, or appends a new row.
	SaveWeight(ctx context.Context, date string, weight float64) error
	// Weights returns every row in stored order.
	Weights(ctx context.Context) ([]models.BodyweightRecord, error)
	// ClearWeights deletes the whole log.
	ClearWeights(ctx context.Context) error
}

// TrainingLog is an append-only history of performed sets.
type TrainingLog interface {
	AppendTraining(ctx context.Context, e models.TrainingLogEntry) error
	Training(ctx context.Context, q TrainingQuery) ([]models.TrainingLogEntry, error)
	Exercises(ctx context.Context) ([]string, error)
	ClearTraining(ctx context.Context) error
}

// Store is both logs behind one backend.
type Store interface {
	BodyweightLog
	TrainingLog
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver      string // csv, sqlite or postgres
	Dir         string // csv directory
	SQLitePath  string
	PostgresDSN string
}

// Open returns the backend named by opts.Driver, running migrations for SQL backends.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "csv":
		return NewCSVStore(opts.Dir)
	case "sqlite":
		return NewSQLiteStore(opts.SQLitePath)
	case "postgres":
		if err := RunPostgresMigrations(opts.PostgresDSN); err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, opts.PostgresDSN)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// filterAndSort applies q to rows held in insertion order. Ties on date keep
// insertion order in both directions.
func filterAndSort(rows []models.TrainingLogEntry, q TrainingQuery) []models.TrainingLogEntry {
	out := make([]models.TrainingLogEntry, 0, len(rows))
	for _, r := range rows {
		if q.Exercise == "" || r.Exercise == q.Exercise {
			out = append(out, r)
		}
	}
	desc := q.Order != OrderAsc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Date > out[j].Date
		}
		return out[i].Date < out[j].Date
	})
	return out
}

func distinctExercises(rows []models.TrainingLogEntry) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range rows {
		if !seen[r.Exercise] {
			seen[r.Exercise] = true
			names = append(names, r.Exercise)
		}
	}
	return names
}
