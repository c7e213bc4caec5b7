package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ThreadRow represents a row in the threads table.
type ThreadRow struct {
	Line    int // 1-based
	Ordinal int // -1 for closed threads
	Status  string
	Body    string
	Created *time.Time
	Cleared *time.Time
	Raw     string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Line    int    `json:"line"`
	Status  string `json:"status"`
	Body    string `json:"body"`
	Snippet string `json:"snippet"`
}

// ReplaceAll swaps the table contents for rows and records checksum, in one
// transaction.
func (db *DB) ReplaceAll(rows []ThreadRow, checksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM threads`); err != nil {
		return fmt.Errorf("index: clear threads: %w", err)
	}
	if err := ftsReset(tx); err != nil {
		return err
	}

	if len(rows) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO threads (line, ordinal, status, body, created, cleared, raw)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("index: prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range rows {
			var ordinal any
			if r.Ordinal >= 0 {
				ordinal = r.Ordinal
			}
			if _, err := stmt.Exec(r.Line, ordinal, r.Status, r.Body, nullTime(r.Created), nullTime(r.Cleared), r.Raw); err != nil {
				return fmt.Errorf("index: insert line %d: %w", r.Line, err)
			}
			if err := ftsInsert(tx, r.Line, r.Body); err != nil {
				return err
			}
		}
	}

	_, err = tx.Exec(`
		INSERT INTO meta (key, value) VALUES ('checksum', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, checksum)
	if err != nil {
		return fmt.Errorf("index: store checksum: %w", err)
	}

	return tx.Commit()
}

// Checksum returns the checksum recorded by the last ReplaceAll, or an empty
// string if the index has never been filled.
func (db *DB) Checksum() (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = 'checksum'`).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum: %w", err)
	}
	return cs, nil
}

// Rows returns indexed threads in file order. An empty status returns all.
func (db *DB) Rows(status string) ([]ThreadRow, error) {
	rows, err := db.conn.Query(`
		SELECT line, COALESCE(ordinal, -1), status, body, created, cleared, raw
		FROM threads
		WHERE ? = '' OR status = ?
		ORDER BY line
	`, status, status)
	if err != nil {
		return nil, fmt.Errorf("index: rows: %w", err)
	}
	defer rows.Close()

	var out []ThreadRow
	for rows.Next() {
		var (
			r                ThreadRow
			created, cleared sql.NullTime
		)
		if err := rows.Scan(&r.Line, &r.Ordinal, &r.Status, &r.Body, &created, &cleared, &r.Raw); err != nil {
			return nil, err
		}
		if created.Valid {
			r.Created = &created.Time
		}
		if cleared.Valid {
			r.Cleared = &cleared.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Counts returns the number of open and closed threads.
func (db *DB) Counts() (open, closed int, err error) {
	err = db.conn.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END), 0)
		FROM threads
	`).Scan(&open, &closed)
	if err != nil {
		return 0, 0, fmt.Errorf("index: counts: %w", err)
	}
	return open, closed, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
