package thread

import (
	"bytes"
	"strings"
)

// Document is the threads file as an ordered sequence of lines, without
// line terminators. Operations return new Documents and never modify the
// receiver's backing array.
type Document []string

// ParseDocument splits file content into lines. A trailing newline does not
// produce an empty final line, and "\r\n" endings are accepted.
func ParseDocument(data []byte) Document {
	if len(data) == 0 {
		return Document{}
	}
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return Document(lines)
}

// Bytes joins the lines, terminating each with a newline.
func (d Document) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range d {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Clone returns a copy that shares no storage with d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	copy(out, d)
	return out
}

// Append returns a new document with line added at the end.
func (d Document) Append(line Line) Document {
	out := make(Document, len(d), len(d)+1)
	copy(out, d)
	return append(out, line.Render())
}

// Entry is a thread line together with its position in the document.
type Entry struct {
	// Index is the 0-based line number.
	Index int
	// Ordinal is the 0-based position among open threads in file order,
	// or -1 for closed threads.
	Ordinal int
	Line    Line
}

// Threads classifies every line and returns the thread lines in file order.
func (d Document) Threads() []Entry {
	var out []Entry
	open := 0
	for i, raw := range d {
		line, ok := Classify(raw)
		if !ok {
			continue
		}
		e := Entry{Index: i, Ordinal: -1, Line: line}
		if line.Status == Open {
			e.Ordinal = open
			open++
		}
		out = append(out, e)
	}
	return out
}

// OpenPositions returns the line indices of open threads in file order.
func (d Document) OpenPositions() []int {
	var out []int
	for i, raw := range d {
		if line, ok := Classify(raw); ok && line.Status == Open {
			out = append(out, i)
		}
	}
	return out
}
