package index

import (
	"log/slog"

	"github.com/starford/threads/internal/checksum"
	"github.com/starford/threads/internal/storage"
	"github.com/starford/threads/internal/thread"
)

// Sync loads the threads file and rebuilds the index when the content
// changed since the last rebuild. It reports whether a rebuild happened.
func Sync(db ThreadIndex, store storage.Provider, logger *slog.Logger) (bool, error) {
	doc, err := store.Load()
	if err != nil {
		return false, err
	}
	sum := checksum.Sum(doc.Bytes())
	current, err := db.Checksum()
	if err != nil {
		return false, err
	}
	if current == sum {
		logger.Debug("sync: up to date", slog.String("path", store.Path()))
		return false, nil
	}
	if err := Replace(db, doc); err != nil {
		return false, err
	}
	logger.Debug("sync: indexed", slog.String("path", store.Path()), slog.String("checksum", sum))
	return true, nil
}

// Replace rebuilds the index from doc.
func Replace(db ThreadIndex, doc thread.Document) error {
	entries := doc.Threads()
	rows := make([]ThreadRow, 0, len(entries))
	for _, e := range entries {
		r := ThreadRow{
			Line:    e.Index + 1,
			Ordinal: e.Ordinal,
			Status:  e.Line.Status.String(),
			Body:    e.Line.Body,
			Raw:     e.Line.Raw,
		}
		if t, ok := e.Line.Created(); ok {
			r.Created = &t
		}
		if t, ok := e.Line.Cleared(); ok {
			r.Cleared = &t
		}
		rows = append(rows, r)
	}
	return db.ReplaceAll(rows, checksum.Sum(doc.Bytes()))
}
