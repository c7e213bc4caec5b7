package index

// ThreadIndex defines the interface for thread indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type ThreadIndex interface {
	ReplaceAll(rows []ThreadRow, checksum string) error
	Checksum() (string, error)
	Rows(status string) ([]ThreadRow, error)
	Counts() (open, closed int, err error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies ThreadIndex at compile time.
var _ ThreadIndex = (*DB)(nil)
