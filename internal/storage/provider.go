// Package storage defines the threads-file gateway.
package storage

import "github.com/starford/threads/internal/thread"

// Provider is the interface for reading and replacing the threads file.
type Provider interface {
	// Path returns the absolute path of the threads file.
	Path() string
	// Load returns the file's lines, creating the file first if needed.
	Load() (thread.Document, error)
	// Save atomically replaces the file with doc.
	Save(doc thread.Document) error
	// Checksum returns the SHA-256 of the file's current content.
	Checksum() (string, error)
}
