package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the command tree against a temp threads file and index.
func runCLI(t *testing.T, file string, args ...string) (string, error) {
	t.Helper()
	dir := filepath.Dir(file)
	cfgPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		cfg := "sqlite:\n  path: " + filepath.Join(dir, "index.db") + "\n"
		if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	argv := append([]string{"threads", "-c", cfgPath, "--file", file}, args...)
	err := app.Run(context.Background(), argv)
	return out.String(), err
}

func TestCLI_AddListDone(t *testing.T) {
	file := filepath.Join(t.TempDir(), "threads.md")

	if out, err := runCLI(t, file, "add", "buy", "milk"); err != nil || out != "Added: buy milk\n" {
		t.Fatalf("add: %q %v", out, err)
	}
	if _, err := runCLI(t, file, "add", "call mum"); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, file, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "  1. buy milk") || !strings.Contains(out, "  2. call mum") {
		t.Errorf("list = %q", out)
	}

	if out, err := runCLI(t, file, "done", "2"); err != nil || out != "Closed: call mum\n" {
		t.Fatalf("done: %q %v", out, err)
	}

	out, _ = runCLI(t, file, "list", "--closed")
	if !strings.Contains(out, "x  call mum  (cleared ") {
		t.Errorf("closed list = %q", out)
	}

	data, _ := os.ReadFile(file)
	if !strings.HasPrefix(string(data), "# Open Threads\n\n- [ ] buy milk <!-- created: ") {
		t.Errorf("file = %q", data)
	}
}

func TestCLI_DoneOutOfRange(t *testing.T) {
	file := filepath.Join(t.TempDir(), "threads.md")
	if _, err := runCLI(t, file, "add", "only one"); err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"0", "2", "abc"} {
		if _, err := runCLI(t, file, "done", n); err == nil {
			t.Errorf("done %s: expected error", n)
		}
	}
}

func TestCLI_Reorder(t *testing.T) {
	file := filepath.Join(t.TempDir(), "threads.md")
	content := "- [ ] old <!-- created: 2024-01-01T00:00:00 -->\n" +
		"- [ ] new <!-- created: 2024-06-01T00:00:00 -->\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, file, "reorder")
	if err != nil || out != "Reordered: 2 open, 0 closed, 0 dropped\n" {
		t.Fatalf("reorder: %q %v", out, err)
	}
	data, _ := os.ReadFile(file)
	want := "Open:\n" +
		"- [ ] new <!-- created: 2024-06-01T00:00:00 -->\n" +
		"- [ ] old <!-- created: 2024-01-01T00:00:00 -->\n" +
		"\n" +
		"Closed:\n" +
		"  (none)\n"
	if string(data) != want {
		t.Errorf("file =\n%s", data)
	}
}

func TestCLI_SearchAndPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "threads.md")
	if _, err := runCLI(t, file, "add", "renew passport"); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, file, "search", "passport")
	if err != nil || !strings.Contains(out, "[ ] renew passport") {
		t.Errorf("search: %q %v", out, err)
	}

	out, err = runCLI(t, file, "path")
	if err != nil || out != file+"\t(explicit)\n" {
		t.Errorf("path: %q %v", out, err)
	}
}

func TestCLI_AddRequiresText(t *testing.T) {
	file := filepath.Join(t.TempDir(), "threads.md")
	if _, err := runCLI(t, file, "add"); err == nil {
		t.Fatal("expected error")
	}
}
