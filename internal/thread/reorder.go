package thread

import (
	"slices"
	"strings"
)

// Lines produced by Reorder. They are not thread lines, so a second Reorder
// discards and regenerates them.
const (
	HeaderOpen   = "Open:"
	HeaderClosed = "Closed:"
	Placeholder  = "  (none)"
)

// Dropped is a non-thread line discarded by Reorder.
type Dropped struct {
	// Index is the 0-based line number in the input document.
	Index int
	Text  string
}

// ReorderResult is the outcome of ReorderReport.
type ReorderResult struct {
	Document Document
	Open     int
	Closed   int
	// Dropped lists discarded lines that carried content. Blank lines and
	// the headers and placeholders of an earlier reorder are not listed.
	Dropped []Dropped
}

// Reorder rewrites doc into an "Open:" section sorted by created (newest
// first) and a "Closed:" section sorted by cleared (newest first). Lines that
// are not threads are discarded.
func Reorder(doc Document) Document {
	return ReorderReport(doc).Document
}

// ReorderReport is Reorder that also reports what it discarded.
func ReorderReport(doc Document) ReorderResult {
	var (
		open, closed []Line
		dropped      []Dropped
	)
	for i, raw := range doc {
		line, ok := Classify(raw)
		if !ok {
			if !isReorderArtifact(raw) {
				dropped = append(dropped, Dropped{Index: i, Text: raw})
			}
			continue
		}
		if line.Status == Open {
			open = append(open, line)
		} else {
			closed = append(closed, line)
		}
	}

	// Absent created sorts as the earliest possible time.
	slices.SortStableFunc(open, func(a, b Line) int {
		ta, _ := a.Created()
		tb, _ := b.Created()
		return tb.Compare(ta)
	})
	// Absent cleared sorts after every present value.
	slices.SortStableFunc(closed, func(a, b Line) int {
		ta, okA := a.Cleared()
		tb, okB := b.Cleared()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})

	out := make(Document, 0, len(open)+len(closed)+5)
	out = appendSection(out, HeaderOpen, open)
	out = append(out, "")
	out = appendSection(out, HeaderClosed, closed)

	return ReorderResult{
		Document: out,
		Open:     len(open),
		Closed:   len(closed),
		Dropped:  dropped,
	}
}

func appendSection(out Document, header string, lines []Line) Document {
	out = append(out, header)
	if len(lines) == 0 {
		return append(out, Placeholder)
	}
	for _, l := range lines {
		out = append(out, strings.TrimSpace(l.Raw))
	}
	return out
}

func isReorderArtifact(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", HeaderOpen, HeaderClosed, strings.TrimSpace(Placeholder):
		return true
	}
	return false
}

