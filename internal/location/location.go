// Package location resolves where the threads file lives.
package location

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvVar names both the environment variable and the rc-file key.
	EnvVar = "THREADS_FILE"
	// DefaultRCFile is read when no explicit path or env value is set.
	DefaultRCFile = "~/.threadstrc"
	// DefaultFile is used when nothing else names a path.
	DefaultFile = "~/threads.md"
)

// Source identifies which input produced a resolved path.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceEnv      Source = "env"
	SourceRCFile   Source = "rcfile"
	SourceDefault  Source = "default"
)

// Resolver looks up the threads file path. Lookup defaults to os.LookupEnv
// and Home to os.UserHomeDir; tests replace both.
type Resolver struct {
	Explicit string
	RCFile   string
	Lookup   func(string) (string, bool)
	Home     func() (string, error)
}

// Resolve returns the first non-empty candidate among, in order: the explicit
// path, $THREADS_FILE, THREADS_FILE= in the rc file, and ~/threads.md.
// A leading "~" is expanded in every candidate.
func (r Resolver) Resolve() (string, Source, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v := strings.TrimSpace(r.Explicit); v != "" {
		p, err := r.expand(v)
		return p, SourceExplicit, err
	}
	if v, ok := lookup(EnvVar); ok && strings.TrimSpace(v) != "" {
		p, err := r.expand(strings.TrimSpace(v))
		return p, SourceEnv, err
	}

	rc := r.RCFile
	if rc == "" {
		rc = DefaultRCFile
	}
	v, err := r.readRC(rc)
	if err != nil {
		return "", "", err
	}
	if v != "" {
		p, err := r.expand(v)
		return p, SourceRCFile, err
	}

	p, err := r.expand(DefaultFile)
	return p, SourceDefault, err
}

// readRC returns THREADS_FILE from a KEY=VALUE file. A missing file is not an
// error. Comments, blank lines and surrounding quotes follow dotenv rules.
func (r Resolver) readRC(path string) (string, error) {
	abs, err := r.expand(path)
	if err != nil {
		return "", err
	}
	vals, err := godotenv.Read(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("location: read rc file %s: %w", abs, err)
	}
	return strings.TrimSpace(vals[EnvVar]), nil
}

func (r Resolver) expand(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return filepath.Clean(p), nil
	}
	home := r.Home
	if home == nil {
		home = os.UserHomeDir
	}
	dir, err := home()
	if err != nil {
		return "", fmt.Errorf("location: home dir: %w", err)
	}
	return filepath.Join(dir, strings.TrimPrefix(p, "~")), nil
}

// Expand replaces a leading "~" with the user's home directory.
func Expand(p string) (string, error) {
	return Resolver{}.expand(p)
}
