package thread

import (
	"strings"
	"time"

	"github.com/starford/threads/internal/timestamp"
)

// MarkNthOpenDone closes the nth open thread, counting open threads in file
// order from zero, and stamps it cleared at now.
//
// An existing created value is kept. When there is none, bare comment content
// (an unkeyed timestamp from older files) becomes the created value. Any
// previous cleared value is overwritten.
//
// Leading indentation of the target line is kept.
//
// If n does not address an open thread, doc is returned unchanged with ok
// false. doc must reflect the file's current content: the ordinal is only
// meaningful against the layout it was computed from.
func MarkNthOpenDone(doc Document, n int, now time.Time) (out Document, ok bool) {
	positions := doc.OpenPositions()
	if n < 0 || n >= len(positions) {
		return doc, false
	}
	idx := positions[n]
	line, _ := Classify(doc[idx])

	meta := line.Meta
	if _, has := meta.Get(KeyCreated); !has && meta.Bare != "" {
		meta = meta.With(KeyCreated, meta.Bare)
		meta.Bare = ""
	}
	meta = meta.With(KeyCleared, timestamp.Format(now))

	line.Status = Closed
	line.Meta = meta

	out = doc.Clone()
	raw := doc[idx]
	indent := raw[:len(raw)-len(strings.TrimLeft(raw, " \t"))]
	out[idx] = indent + line.Render()
	return out, true
}
