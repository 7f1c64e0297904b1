// Package upload imports a folder of Alpha Progression CSV exports, either
// into a local store or by posting them to a running meetprep server.
// Files already imported with the same content are skipped.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/meetprep/internal/ingest"
	"github.com/claude/meetprep/internal/ingest/alpha"
)

// ImportFunc imports one export. (*alpha.Provider).Ingest and (*Client).Send
// both satisfy it.
type ImportFunc func(ctx context.Context, r io.Reader) (*ingest.Result, error)

// Stats tracks sync progress.
type Stats struct {
	FilesTotal     int `json:"files_total"`
	FilesSynced    int `json:"files_synced"`
	FilesSkipped   int `json:"files_skipped"`
	FilesErrored   int `json:"files_errored"`
	EntriesAdded   int `json:"entries_added"`
	WarmupsSkipped int `json:"warmups_skipped"`
}

// Syncer walks an export directory and imports new or changed .csv files.
type Syncer struct {
	importFn ImportFunc
	state    *StateDB
	dir      string
	dryRun   bool
	log      *slog.Logger
	stats    Stats
}

// New creates a new Syncer. importFn may be nil in dry-run mode.
func New(importFn ImportFunc, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Syncer {
	return &Syncer{
		importFn: importFn,
		state:    state,
		dir:      dir,
		dryRun:   dryRun,
		log:      log,
	}
}

type exportFile struct {
	path    string
	relPath string
	hash    string
}

// Run imports every pending file in name order. A file that fails is logged
// and counted; the rest still run.
func (s *Syncer) Run(ctx context.Context) (*Stats, error) {
	files, err := s.listExports()
	if err != nil {
		return &s.stats, err
	}
	s.stats.FilesTotal = len(files)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &s.stats, err
		}
		done, err := s.state.Imported(ctx, f.hash)
		if err != nil {
			return &s.stats, err
		}
		if done {
			s.log.Debug("already imported", "file", f.relPath)
			s.stats.FilesSkipped++
			continue
		}

		result, err := s.importFile(ctx, f)
		if err != nil {
			s.stats.FilesErrored++
			s.log.Error("import failed", "file", f.relPath, "error", err)
			continue
		}
		s.stats.FilesSynced++
		s.stats.EntriesAdded += result.EntriesInserted
		s.stats.WarmupsSkipped += result.WarmupsSkipped
		s.log.Info("imported export", "file", f.relPath, "entries", result.EntriesInserted,
			"first", result.FirstDate, "last", result.LastDate, "dry_run", s.dryRun)

		if s.dryRun {
			continue
		}
		if err := s.state.Record(ctx, f.relPath, f.hash, result); err != nil {
			return &s.stats, err
		}
	}
	return &s.stats, nil
}

func (s *Syncer) importFile(ctx context.Context, f exportFile) (*ingest.Result, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	if s.dryRun {
		sessions, err := alpha.Parse(fh)
		if err != nil {
			return nil, err
		}
		entries, warmups := alpha.Entries(sessions)
		result := &ingest.Result{SessionsReceived: len(sessions), EntriesInserted: len(entries), WarmupsSkipped: warmups}
		for _, e := range entries {
			if result.FirstDate == "" || e.Date < result.FirstDate {
				result.FirstDate = e.Date
			}
			if e.Date > result.LastDate {
				result.LastDate = e.Date
			}
		}
		return result, nil
	}
	return s.importFn(ctx, fh)
}

// listExports returns the .csv files under the directory, sorted by path.
func (s *Syncer) listExports() ([]exportFile, error) {
	var files []exportFile
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		hash, err := HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			rel = path
		}
		files = append(files, exportFile{path: path, relPath: filepath.ToSlash(rel), hash: hash})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.dir, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].relPath < files[j].relPath })
	return files, nil
}
