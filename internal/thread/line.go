// Package thread implements the thread-line grammar and the two document
// transformations built on it: completing the Nth open thread and
// reordering the document into Open/Closed sections.
//
// Every function here is a pure transformation over in-memory lines. None of
// them fail on malformed input: unknown lines are classified as unrecognized
// and unreadable timestamps are treated as absent.
package thread

import (
	"strings"
	"time"

	"github.com/starford/threads/internal/timestamp"
)

// Status is the checkbox state of a thread.
type Status int

const (
	Open Status = iota
	Closed
)

func (s Status) String() string {
	if s == Closed {
		return "closed"
	}
	return "open"
}

func (s Status) marker() byte {
	if s == Closed {
		return 'x'
	}
	return ' '
}

const (
	commentOpen  = "<!--"
	commentClose = "-->"
	prefix       = "- ["
)

// Line is a classified thread line.
type Line struct {
	Status Status
	// Body is the text between the checkbox and the metadata comment,
	// with surrounding whitespace removed.
	Body string
	Meta Metadata
	// Raw is the line exactly as read.
	Raw string
}

// Created returns the parsed creation time, if any.
func (l Line) Created() (time.Time, bool) {
	return l.stamp(KeyCreated)
}

// Cleared returns the parsed completion time, if any.
func (l Line) Cleared() (time.Time, bool) {
	return l.stamp(KeyCleared)
}

func (l Line) stamp(key string) (time.Time, bool) {
	v, ok := l.Meta.Get(key)
	if !ok {
		return time.Time{}, false
	}
	return timestamp.Parse(v)
}

// Classify parses raw as a thread line. ok is false when raw does not follow
// the grammar:
//
//	"- [" (" " | "x") "]" [" " body] [" <!-- " metadata " -->"]
//
// Surrounding whitespace is ignored. The comment must end the line, and the
// body may not contain a comment delimiter.
func Classify(raw string) (line Line, ok bool) {
	s := strings.TrimSpace(raw)
	rest, found := strings.CutPrefix(s, prefix)
	if !found || len(rest) < 2 || rest[1] != ']' {
		return Line{}, false
	}

	var status Status
	switch rest[0] {
	case ' ':
		status = Open
	case 'x':
		status = Closed
	default:
		return Line{}, false
	}

	rest = rest[2:]
	if rest != "" {
		if rest[0] != ' ' {
			return Line{}, false
		}
		rest = rest[1:]
	}

	body, inner, hasComment := cutComment(rest)
	if strings.Contains(body, commentOpen) || strings.Contains(body, commentClose) {
		return Line{}, false
	}

	line = Line{Status: status, Body: strings.TrimSpace(body), Raw: raw}
	if hasComment {
		if strings.Contains(inner, commentOpen) || strings.Contains(inner, commentClose) {
			return Line{}, false
		}
		line.Meta = ParseMetadata(inner)
	}
	return line, true
}

// cutComment splits a trailing <!-- ... --> block off s.
func cutComment(s string) (body, inner string, found bool) {
	if !strings.HasSuffix(s, commentClose) {
		return s, "", false
	}
	i := strings.LastIndex(s, commentOpen)
	if i < 0 || i+len(commentOpen) > len(s)-len(commentClose) {
		return s, "", false
	}
	return s[:i], s[i+len(commentOpen) : len(s)-len(commentClose)], true
}

// Render serializes l from its parsed fields, ignoring Raw.
func (l Line) Render() string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(l.Status.marker())
	b.WriteByte(']')
	if l.Body != "" {
		b.WriteByte(' ')
		b.WriteString(l.Body)
	}
	if !l.Meta.IsEmpty() {
		b.WriteString(" " + commentOpen + " ")
		b.WriteString(l.Meta.String())
		b.WriteString(" " + commentClose)
	}
	return b.String()
}

// New returns an open thread stamped with its creation time.
func New(body string, created time.Time) Line {
	l := Line{
		Status: Open,
		Body:   strings.TrimSpace(body),
		Meta:   Metadata{}.With(KeyCreated, timestamp.Format(created)),
	}
	l.Raw = l.Render()
	return l
}
