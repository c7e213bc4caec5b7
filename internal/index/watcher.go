package index

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/threads/internal/storage"
)

// Watcher event kinds.
const (
	EventChanged = "changed"
	EventRemoved = "removed"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of EventChanged, EventRemoved.
type EventCallback func(kind string, path string)

const debounce = 150 * time.Millisecond

// Watch starts an fsnotify watcher on the directory holding the threads file
// and re-syncs the index whenever the file changes, until ctx is cancelled.
// It calls cb (if non-nil) after each sync that changed the index.
//
// The directory is watched rather than the file because editors and atomic
// writers replace the file by rename, which drops a per-file watch. Bursts of
// events are debounced into one sync.
func Watch(ctx context.Context, db ThreadIndex, store storage.Provider, logger *slog.Logger, cb EventCallback) error {
	target := filepath.Clean(store.Path())

	// Initial sync also creates the file when missing.
	if _, err := Sync(db, store, logger); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", target))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			resync(db, store, target, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: event", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// resync runs after the debounce window. A missing file is reported and left
// missing: the next command will recreate it.
func resync(db ThreadIndex, store storage.Provider, target string, logger *slog.Logger, cb EventCallback) {
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		logger.Warn("watcher: threads file removed", slog.String("path", target))
		if err := db.ReplaceAll(nil, ""); err != nil {
			logger.Warn("watcher: clear index failed", slog.String("error", err.Error()))
		}
		if cb != nil {
			cb(EventRemoved, target)
		}
		return
	}
	changed, err := Sync(db, store, logger)
	if err != nil {
		logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
		return
	}
	if changed && cb != nil {
		cb(EventChanged, target)
	}
}
