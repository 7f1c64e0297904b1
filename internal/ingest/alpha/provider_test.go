package alpha

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/meetprep/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestEntriesSkipWarmups verifies one log row per working set with RPE derived from RIR.
func TestEntriesSkipWarmups(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	entries, warmups := Entries(sessions)
	if warmups != 5 {
		t.Errorf("warmups = %d, want 5", warmups)
	}
	if len(entries) != 9 {
		t.Fatalf("entries = %d, want 9", len(entries))
	}

	first := entries[0]
	if first.Date != "2026-01-12" || first.Exercise != "Low Bar Squat" || first.Weight != 67.5 {
		t.Errorf("first entry = %+v", first)
	}
	if first.Sets != 1 || first.Reps != 5 || first.RPE != 7 {
		t.Errorf("first entry sets/reps/rpe = %d/%d/%v", first.Sets, first.Reps, first.RPE)
	}
	if first.Note != "Day 1 · Squat / Bench · Week 3 · Meet Prep" {
		t.Errorf("note = %q", first.Note)
	}
	if entries[4].RPE != 8 || entries[3].RPE != 7.5 {
		t.Errorf("bench RPE = %v, %v", entries[3].RPE, entries[4].RPE)
	}
	if !strings.HasSuffix(entries[5].Note, "bodyweight +") {
		t.Errorf("dips note = %q", entries[5].Note)
	}
	if entries[8].Date != "2026-01-14" || entries[8].RPE != 8.5 {
		t.Errorf("last entry = %+v", entries[8])
	}
}

// TestIngestAppends verifies an import lands in the training log and a second
// import of the same file appends again.
func TestIngestAppends(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := NewProvider(store, testLogger())

	res, err := p.Ingest(ctx, strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsReceived != 2 || res.SetsReceived != 14 || res.EntriesInserted != 9 || res.WarmupsSkipped != 5 {
		t.Errorf("result = %+v", res)
	}
	if res.FirstDate != "2026-01-12" || res.LastDate != "2026-01-14" {
		t.Errorf("date range = %s..%s", res.FirstDate, res.LastDate)
	}

	if _, err := p.Ingest(ctx, strings.NewReader(sampleCSV)); err != nil {
		t.Fatal(err)
	}
	rows, err := store.Training(ctx, storage.TrainingQuery{Exercise: "Conventional Deadlift"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Errorf("deadlift rows = %d, want 4", len(rows))
	}
}

func TestIngestParseError(t *testing.T) {
	store, err := storage.NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := NewProvider(store, testLogger())
	doc := "\"S\";\"2026-01-12 6:10 h\";\"1 hr\"\n1;60;5;2\n"
	if _, err := p.Ingest(context.Background(), strings.NewReader(doc)); err == nil {
		t.Fatal("expected error")
	}
	rows, _ := store.Training(context.Background(), storage.TrainingQuery{})
	if len(rows) != 0 {
		t.Errorf("rows = %d after failed import, want 0", len(rows))
	}
}
