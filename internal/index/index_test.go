package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/threads/internal/storage"
	"github.com/starford/threads/internal/thread"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testStore(t *testing.T, content string) *storage.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threads.md")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	f, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM threads`).Scan(&count); err != nil {
		t.Fatalf("threads table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM meta`).Scan(&count); err != nil {
		t.Fatalf("meta table missing: %v", err)
	}
}

func TestChecksum_Empty(t *testing.T) {
	db := testDB(t)
	cs, err := db.Checksum()
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if cs != "" {
		t.Errorf("checksum = %q, want empty", cs)
	}
}

func TestReplaceAndRows(t *testing.T) {
	db := testDB(t)
	doc := thread.Document{
		"# Open Threads",
		"- [ ] a <!-- created: 2024-01-01T10:00:00 -->",
		"- [x] b <!-- created: 2024-01-01T10:00:00, cleared: 2024-01-02T10:00:00 -->",
		"- [ ] c",
	}
	if err := Replace(db, doc); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	all, err := db.Rows("")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Line != 2 || all[0].Ordinal != 0 || all[0].Created == nil {
		t.Errorf("row 0 = %+v", all[0])
	}
	if all[1].Ordinal != -1 || all[1].Cleared == nil {
		t.Errorf("row 1 = %+v", all[1])
	}
	if all[2].Ordinal != 1 || all[2].Created != nil {
		t.Errorf("row 2 = %+v", all[2])
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	if !all[0].Created.Equal(want) {
		t.Errorf("created = %v, want %v", all[0].Created, want)
	}

	open, closed, err := db.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if open != 2 || closed != 1 {
		t.Errorf("counts = %d/%d", open, closed)
	}

	closedRows, _ := db.Rows("closed")
	if len(closedRows) != 1 || closedRows[0].Body != "b" {
		t.Errorf("closed rows = %+v", closedRows)
	}
}

func TestReplaceClearsOldRows(t *testing.T) {
	db := testDB(t)
	_ = Replace(db, thread.Document{"- [ ] old"})
	_ = Replace(db, thread.Document{"- [ ] new"})
	rows, _ := db.Rows("")
	if len(rows) != 1 || rows[0].Body != "new" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestSync_SkipsUnchanged(t *testing.T) {
	db := testDB(t)
	store := testStore(t, "- [ ] one\n")
	logger := quietLogger()

	changed, err := Sync(db, store, logger)
	if err != nil || !changed {
		t.Fatalf("first sync changed=%v err=%v", changed, err)
	}
	changed, err = Sync(db, store, logger)
	if err != nil || changed {
		t.Fatalf("second sync changed=%v err=%v", changed, err)
	}

	_ = store.Save(thread.Document{"- [ ] one", "- [ ] two"})
	changed, _ = Sync(db, store, logger)
	if !changed {
		t.Error("expected resync after content change")
	}
	open, _, _ := db.Counts()
	if open != 2 {
		t.Errorf("open = %d, want 2", open)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = Replace(db, thread.Document{"- [ ] call the plumber", "- [x] uniqueword appears here"})

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Line != 2 || results[0].Status != "closed" {
		t.Errorf("search results = %+v", results)
	}
}
