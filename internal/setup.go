package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/threads/internal/index"
	"github.com/starford/threads/internal/location"
	"github.com/starford/threads/internal/storage"
	"github.com/starford/threads/internal/threadservice"
)

var (
	errConfigRequired      = errors.New("config is required")
	errThreadsFileRequired = errors.New("threads file path is required")
)

// NewLogger builds a slog logger from the application config. A nil w
// writes to stderr.
func NewLogger(cfg *ApplicationConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ResolveThreadsFile picks the threads file: flag first, then the config's
// threads.file, then the environment and rc-file fallbacks.
func ResolveThreadsFile(cfg *Config, flag string) (string, location.Source, error) {
	explicit := flag
	if explicit == "" {
		explicit = cfg.Threads.File
	}
	return location.Resolver{Explicit: explicit, RCFile: cfg.Threads.RCFile}.Resolve()
}

// Backend bundles the pieces every command works against.
type Backend struct {
	Store   *storage.File
	DB      *index.DB
	Service *threadservice.Service
}

// Close releases the index.
func (b *Backend) Close() error {
	return b.DB.Close()
}

// OpenBackend builds a thread service for path backed by the SQLite index
// configured in cfg. The threads file is created from the template if missing.
func OpenBackend(cfg *Config, path string, logger *slog.Logger, opts ...threadservice.Option) (*Backend, error) {
	store, err := storage.NewFile(path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err := store.Ensure(); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	dbPath, err := location.Expand(cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	db, err := index.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	opts = append([]threadservice.Option{
		threadservice.WithIndex(db),
		threadservice.WithLogger(logger),
	}, opts...)
	return &Backend{
		Store:   store,
		DB:      db,
		Service: threadservice.NewService(store, opts...),
	}, nil
}
