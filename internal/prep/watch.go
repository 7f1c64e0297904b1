package prep

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 250 * time.Millisecond

// WatchTable reloads the prescription table at path into holder whenever the
// file changes, until ctx is cancelled. A table that fails to parse is logged
// and the previous one stays active. The directory is watched rather than the
// file so atomic rename-on-save is picked up.
func WatchTable(ctx context.Context, path string, holder *TableHolder, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()

		timer := time.NewTimer(reloadDelay)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					timer.Reset(reloadDelay)
				}
			case <-timer.C:
				ReloadTable(path, holder, log)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("prescription watcher error", "error", err)
			}
		}
	}()

	log.Info("watching prescription table", "path", abs)
	return nil
}

// ReloadTable replaces the holder's table with the file's contents, keeping
// the current table if the file is invalid. It reports whether a swap happened.
func ReloadTable(path string, holder *TableHolder, log *slog.Logger) bool {
	t, err := LoadTable(path)
	if err != nil {
		log.Warn("prescription table reload failed, keeping previous table", "path", path, "error", err)
		return false
	}
	holder.Store(t)
	log.Info("prescription table reloaded", "path", path)
	return true
}
