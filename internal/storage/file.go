package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/starford/threads/internal/checksum"
	"github.com/starford/threads/internal/thread"
)

// Template is written to a threads file that does not exist yet.
const Template = "# Open Threads\n\n"

// File implements Provider for a single file on the local file system.
type File struct {
	path string // absolute
}

// NewFile creates a File provider for path. The file itself is created
// lazily on first Load or Save.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("storage: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	return &File{path: abs}, nil
}

// Path implements Provider.
func (f *File) Path() string {
	return f.path
}

// Ensure creates the parent directory and the file with Template when the
// file is missing. An existing file is left untouched.
func (f *File) Ensure() error {
	info, err := os.Stat(f.path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("storage: %s is a directory", f.path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: stat: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	fh, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("storage: create: %w", err)
	}
	if _, err := fh.WriteString(Template); err != nil {
		_ = fh.Close()
		return fmt.Errorf("storage: write template: %w", err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	return nil
}

// Load implements Provider.
func (f *File) Load() (thread.Document, error) {
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return thread.ParseDocument(data), nil
}

// Save implements Provider. The write goes to a temp file in the same
// directory which is then renamed over the target.
func (f *File) Save(doc thread.Document) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(doc.Bytes())); err != nil {
		return fmt.Errorf("storage: write %s: %w", f.path, err)
	}
	return nil
}

// Checksum implements Provider.
func (f *File) Checksum() (string, error) {
	data, err := f.read()
	if err != nil {
		return "", err
	}
	return checksum.Sum(data), nil
}

func (f *File) read() ([]byte, error) {
	if err := f.Ensure(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return data, nil
}
