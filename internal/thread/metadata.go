package thread

import "strings"

// Recognized metadata keys.
const (
	KeyCreated = "created"
	KeyCleared = "cleared"
)

// Field is one "key: value" pair from a metadata comment.
type Field struct {
	Key   string
	Value string
}

// Metadata is the parsed content of a trailing <!-- ... --> comment.
//
// Fields keeps every keyed pair in comment order, including keys that are not
// interpreted. Bare holds comment segments that are not "key: value" pairs,
// joined with ", " (older files stamped a bare timestamp with no key).
type Metadata struct {
	Fields []Field
	Bare   string
}

// ParseMetadata parses the inner text of a metadata comment.
//
// Segments are separated by commas. A segment that is not a "key: value"
// pair continues the value of the preceding field, so values may contain
// commas. Only segments before the first pair are bare.
func ParseMetadata(inner string) Metadata {
	var m Metadata
	var bare []string
	for _, seg := range strings.Split(inner, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if f, ok := splitPair(seg); ok {
			m.Fields = append(m.Fields, f)
			continue
		}
		if n := len(m.Fields); n > 0 {
			m.Fields[n-1].Value += ", " + seg
			continue
		}
		bare = append(bare, seg)
	}
	m.Bare = strings.Join(bare, ", ")
	return m
}

// splitPair splits "key: value". The key must start with an ASCII letter so
// that a bare ISO timestamp ("2024-01-01T10:00:00") is never read as a pair.
func splitPair(seg string) (Field, bool) {
	i := strings.IndexByte(seg, ':')
	if i <= 0 {
		return Field{}, false
	}
	key := strings.TrimSpace(seg[:i])
	if !isKey(key) {
		return Field{}, false
	}
	return Field{Key: key, Value: strings.TrimSpace(seg[i+1:])}, true
}

func isKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_' || c == '-'):
		default:
			return false
		}
	}
	return true
}

// Get returns the value of the first field named key (case-insensitive).
func (m Metadata) Get(key string) (string, bool) {
	for _, f := range m.Fields {
		if strings.EqualFold(f.Key, key) {
			return f.Value, true
		}
	}
	return "", false
}

// With returns a copy of m with key set to value. An existing field keeps its
// position; later duplicates of the same key are removed.
func (m Metadata) With(key, value string) Metadata {
	out := Metadata{Bare: m.Bare, Fields: make([]Field, 0, len(m.Fields)+1)}
	set := false
	for _, f := range m.Fields {
		if !strings.EqualFold(f.Key, key) {
			out.Fields = append(out.Fields, f)
			continue
		}
		if !set {
			out.Fields = append(out.Fields, Field{Key: f.Key, Value: value})
			set = true
		}
	}
	if !set {
		out.Fields = append(out.Fields, Field{Key: key, Value: value})
	}
	return out
}

// IsEmpty reports whether the comment carried nothing at all.
func (m Metadata) IsEmpty() bool {
	return len(m.Fields) == 0 && m.Bare == ""
}

// String renders the comment body: created fields first, then cleared
// fields, then the remaining fields in their original order, then any bare
// content. Every field keeps its key spelling and duplicates are kept.
func (m Metadata) String() string {
	parts := make([]string, 0, len(m.Fields)+1)
	for _, key := range []string{KeyCreated, KeyCleared} {
		for _, f := range m.Fields {
			if strings.EqualFold(f.Key, key) {
				parts = append(parts, f.Key+": "+f.Value)
			}
		}
	}
	for _, f := range m.Fields {
		if strings.EqualFold(f.Key, KeyCreated) || strings.EqualFold(f.Key, KeyCleared) {
			continue
		}
		parts = append(parts, f.Key+": "+f.Value)
	}
	if m.Bare != "" {
		parts = append(parts, m.Bare)
	}
	return strings.Join(parts, ", ")
}
