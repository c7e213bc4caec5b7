// Package testutil provides shared test helpers for threads files and indexes.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/threads/internal/index"
	"github.com/starford/threads/internal/storage"
	"github.com/starford/threads/internal/timestamp"
)

// Now is the instant returned by Clock.
var Now = time.Date(2024, 2, 2, 12, 0, 0, 0, time.Local)

// Clock returns a clock fixed at Now.
func Clock() timestamp.Clock {
	return timestamp.Fixed(Now)
}

// TestDB creates a temporary SQLite index that is automatically closed.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a threads file holding content in a temp directory.
// An empty content leaves the file absent so the first Load creates it.
func TestStore(t *testing.T, content string) *storage.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threads.md")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// ReadFile returns the content of the store's file.
func ReadFile(t *testing.T, store storage.Provider) string {
	t.Helper()
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
