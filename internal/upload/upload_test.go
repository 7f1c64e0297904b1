package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/meetprep/internal/ingest"
	"github.com/claude/meetprep/internal/ingest/alpha"
	"github.com/claude/meetprep/internal/storage"
)

const weekOne = `
"Day 1 · Squat · Week 1";"2026-01-05 18:00 h";"1:00 hr"
"1. Low Bar Squat · Barbell · 6 reps";"WU1 · 20 kg · 10 reps"
#;KG;REPS;RIR
1;65;6;3
2;65;6;3
`

const weekTwo = `
"Day 1 · Squat · Week 2";"2026-01-12 18:00 h";"1:00 hr"
"1. Low Bar Squat · Barbell · 6 reps"
#;KG;REPS;RIR
1;67,5;6;3
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestStateDB verifies exports are recognised by content hash only.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()
	ctx := context.Background()

	if ok, _ := state.Imported(ctx, "abc"); ok {
		t.Fatal("empty state reports imported")
	}
	result := &ingest.Result{EntriesInserted: 4, FirstDate: "2026-01-05", LastDate: "2026-01-05"}
	if err := state.Record(ctx, "a.csv", "abc", result); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.Imported(ctx, "abc"); !ok {
		t.Error("recorded export not imported")
	}
	if ok, _ := state.Imported(ctx, "def"); ok {
		t.Error("different hash should not count as imported")
	}
	// Re-recording the same content under another name is fine.
	if err := state.Record(ctx, "copy/a.csv", "abc", result); err != nil {
		t.Fatal(err)
	}
}

// TestSyncSkipsCopies verifies an export copied under another name is not
// imported twice.
func TestSyncSkipsCopies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "export.csv"), weekOne)
	writeFile(t, filepath.Join(dir, "backup", "export (1).csv"), weekOne)

	store, err := storage.NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(alpha.NewProvider(store, testLogger()).Ingest, state, dir, false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSynced != 1 || stats.FilesSkipped != 1 || stats.EntriesAdded != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestSyncLocalSkipsImported verifies a second run appends nothing and a
// changed file is imported again.
func TestSyncLocalSkipsImported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2026-01-05.csv"), weekOne)
	writeFile(t, filepath.Join(dir, "jan", "2026-01-12.CSV"), weekTwo)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not an export")

	store, err := storage.NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	provider := alpha.NewProvider(store, testLogger())
	ctx := context.Background()

	stats, err := New(provider.Ingest, state, dir, false, testLogger()).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 2 || stats.FilesSynced != 2 || stats.EntriesAdded != 3 || stats.WarmupsSkipped != 1 {
		t.Errorf("first run stats = %+v", stats)
	}

	stats, err = New(provider.Ingest, state, dir, false, testLogger()).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 2 || stats.FilesSynced != 0 {
		t.Errorf("second run stats = %+v", stats)
	}
	rows, _ := store.Training(ctx, storage.TrainingQuery{})
	if len(rows) != 3 {
		t.Errorf("rows after re-run = %d, want 3", len(rows))
	}

	writeFile(t, filepath.Join(dir, "jan", "2026-01-12.CSV"), weekTwo+"2;67,5;6;2\n")
	stats, err = New(provider.Ingest, state, dir, false, testLogger()).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSynced != 1 || stats.FilesSkipped != 1 || stats.EntriesAdded != 2 {
		t.Errorf("changed file stats = %+v", stats)
	}
}

// TestSyncErrorContinues verifies a bad file is counted, not recorded, and
// does not stop the rest.
func TestSyncErrorContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a-bad.csv"), "#;KG;REPS;RIR\n1;65;6;3\n")
	writeFile(t, filepath.Join(dir, "b-good.csv"), weekOne)

	store, _ := storage.NewCSVStore(t.TempDir())
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	provider := alpha.NewProvider(store, testLogger())
	stats, err := New(provider.Ingest, state, dir, false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 || stats.FilesSynced != 1 {
		t.Errorf("stats = %+v", stats)
	}

	stats, _ = New(provider.Ingest, state, dir, false, testLogger()).Run(context.Background())
	if stats.FilesErrored != 1 || stats.FilesSkipped != 1 {
		t.Errorf("bad file should be retried, stats = %+v", stats)
	}
}

// TestSyncDryRun verifies nothing is imported or recorded.
func TestSyncDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), weekOne)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(nil, state, dir, true, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSynced != 1 || stats.EntriesAdded != 2 {
		t.Errorf("stats = %+v", stats)
	}
	stats, _ = New(nil, state, dir, true, testLogger()).Run(context.Background())
	if stats.FilesSkipped != 0 {
		t.Errorf("dry run recorded state, stats = %+v", stats)
	}
}

// TestClientSendRetries verifies 5xx responses are retried and the result decoded.
func TestClientSendRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/training/import" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != weekOne {
			t.Errorf("body = %q", body)
		}
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(ingest.Result{SessionsReceived: 1, EntriesInserted: 2})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	c.backoff = time.Millisecond
	result, err := c.Send(context.Background(), strings.NewReader(weekOne))
	if err != nil {
		t.Fatal(err)
	}
	if result.EntriesInserted != 2 || calls.Load() != 2 {
		t.Errorf("result = %+v after %d calls", result, calls.Load())
	}
}

// TestClientSendRejected verifies 4xx responses are not retried.
func TestClientSendRejected(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"parsing CSV: line 1: set row outside an exercise"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.backoff = time.Millisecond
	_, err := c.Send(context.Background(), strings.NewReader("garbage"))
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
