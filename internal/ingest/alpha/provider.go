package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/meetprep/internal/ingest"
	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/storage"
)

// Provider appends Alpha Progression CSV exports to the training log.
type Provider struct {
	log    storage.TrainingLog
	logger *slog.Logger
}

// NewProvider creates a new Alpha Progression import provider.
func NewProvider(log storage.TrainingLog, logger *slog.Logger) *Provider {
	return &Provider{log: log, logger: logger}
}

// Entries flattens sessions into training log rows, one per working set.
// Warmups are dropped and counted.
func Entries(sessions []models.AlphaSession) (entries []models.TrainingLogEntry, warmups int) {
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			for _, set := range ex.Sets {
				if set.IsWarmup {
					warmups++
					continue
				}
				entries = append(entries, set.LogEntry(s, ex.Name))
			}
		}
	}
	return entries, warmups
}

// Ingest parses a CSV export and appends every working set. Rows are appended
// in export order; re-importing the same file duplicates them.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	entries, warmups := Entries(sessions)
	result := &ingest.Result{
		SessionsReceived: len(sessions),
		SetsReceived:     len(entries) + warmups,
		WarmupsSkipped:   warmups,
	}

	for _, e := range entries {
		if err := p.log.AppendTraining(ctx, e); err != nil {
			return result, fmt.Errorf("appending %s %s: %w", e.Date, e.Exercise, err)
		}
		result.EntriesInserted++
		if result.FirstDate == "" || e.Date < result.FirstDate {
			result.FirstDate = e.Date
		}
		if e.Date > result.LastDate {
			result.LastDate = e.Date
		}
	}

	result.Message = fmt.Sprintf("imported %d sets from %d sessions", result.EntriesInserted, len(sessions))
	p.logger.Info("alpha import complete",
		"sessions", len(sessions),
		"entries", result.EntriesInserted,
		"warmups_skipped", warmups,
	)
	return result, nil
}
