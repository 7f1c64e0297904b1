package upload

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/meetprep/internal/ingest"
)

// StateDB remembers which exports have been imported, keyed by content hash,
// so the same sets are never appended twice. A renamed or copied export is
// still recognised.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/sync-state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "sync-state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS imported_exports (
		hash        TEXT PRIMARY KEY,
		path        TEXT NOT NULL,
		entries     INTEGER NOT NULL DEFAULT 0,
		first_date  TEXT NOT NULL DEFAULT '',
		last_date   TEXT NOT NULL DEFAULT '',
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Imported reports whether an export with this content hash was imported.
func (s *StateDB) Imported(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_exports WHERE hash = ?`, hash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking import state: %w", err)
	}
	return n > 0, nil
}

// Record stores the outcome of importing the export at relPath.
func (s *StateDB) Record(ctx context.Context, relPath, hash string, r *ingest.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO imported_exports (hash, path, entries, first_date, last_date)
		 VALUES (?, ?, ?, ?, ?)`,
		hash, relPath, r.EntriesInserted, r.FirstDate, r.LastDate,
	)
	if err != nil {
		return fmt.Errorf("recording import of %s: %w", relPath, err)
	}
	return nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile returns the hex SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
