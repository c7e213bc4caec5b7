package thread

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify_OpenWithCreated(t *testing.T) {
	raw := "- [ ] buy milk <!-- created: 2024-01-01T10:00:00 -->"
	l, ok := Classify(raw)
	if !ok {
		t.Fatal("expected thread line")
	}
	if l.Status != Open {
		t.Errorf("status = %v, want open", l.Status)
	}
	if l.Body != "buy milk" {
		t.Errorf("body = %q", l.Body)
	}
	if v, _ := l.Meta.Get(KeyCreated); v != "2024-01-01T10:00:00" {
		t.Errorf("created = %q", v)
	}
	if _, ok := l.Cleared(); ok {
		t.Error("cleared should be absent")
	}
	if l.Raw != raw {
		t.Errorf("raw = %q", l.Raw)
	}
}

func TestClassify_ClosedBothStamps(t *testing.T) {
	l, ok := Classify("  - [x] ship it <!-- created: 2024-01-01T10:00:00, cleared: 2024-01-02T09:30:00 -->  \n")
	if !ok {
		t.Fatal("expected thread line")
	}
	if l.Status != Closed || l.Body != "ship it" {
		t.Errorf("got %v %q", l.Status, l.Body)
	}
	if _, ok := l.Created(); !ok {
		t.Error("created should parse")
	}
	if _, ok := l.Cleared(); !ok {
		t.Error("cleared should parse")
	}
}

func TestClassify_NoComment(t *testing.T) {
	l, ok := Classify("- [ ] just text")
	if !ok || l.Body != "just text" || !l.Meta.IsEmpty() {
		t.Errorf("got %+v ok=%v", l, ok)
	}
}

func TestClassify_EmptyBody(t *testing.T) {
	for _, raw := range []string{"- [ ]", "- [x] <!-- cleared: 2024-01-01T00:00:00 -->"} {
		l, ok := Classify(raw)
		if !ok {
			t.Errorf("Classify(%q) unrecognized", raw)
			continue
		}
		if l.Body != "" {
			t.Errorf("Classify(%q) body = %q", raw, l.Body)
		}
	}
}

func TestClassify_Unrecognized(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"# Open Threads",
		"Open:",
		"Closed:",
		"  (none)",
		"free text <!-- created: 2024-01-01T10:00:00 -->",
		"* [ ] wrong bullet",
		"- [X] capital marker",
		"- [-] other marker",
		"- []",
		"- [ ]no space",
		"- [ ] comment <!-- created: 2024-01-01 --> not at end",
		"- [ ] two <!-- a --> comments <!-- b -->",
		"- [ ] dangling -->",
	}
	for _, raw := range cases {
		if l, ok := Classify(raw); ok {
			t.Errorf("Classify(%q) = %+v, want unrecognized", raw, l)
		}
	}
}

func TestClassify_BareTimestampComment(t *testing.T) {
	l, ok := Classify("- [ ] legacy <!-- 2023-02-03T04:05:06 -->")
	if !ok {
		t.Fatal("expected thread line")
	}
	if _, ok := l.Created(); ok {
		t.Error("bare timestamp must not be read as created")
	}
	if l.Meta.Bare != "2023-02-03T04:05:06" {
		t.Errorf("bare = %q", l.Meta.Bare)
	}
}

func TestClassify_MalformedTimestampIsAbsent(t *testing.T) {
	l, ok := Classify("- [ ] x <!-- created: not-a-date -->")
	if !ok {
		t.Fatal("expected thread line")
	}
	if _, ok := l.Created(); ok {
		t.Error("malformed created should be absent")
	}
}

func TestParseMetadata_PreservesUnknownKeys(t *testing.T) {
	m := ParseMetadata(" created: 2024-01-01T10:00:00, owner: sam, prio: high ")
	want := []Field{
		{Key: "created", Value: "2024-01-01T10:00:00"},
		{Key: "owner", Value: "sam"},
		{Key: "prio", Value: "high"},
	}
	if diff := cmp.Diff(want, m.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if m.Bare != "" {
		t.Errorf("bare = %q", m.Bare)
	}
}

func TestMetadataWith_ReplacesInPlace(t *testing.T) {
	m := ParseMetadata("owner: sam, cleared: old, cleared: older")
	got := m.With(KeyCleared, "new")
	want := []Field{{Key: "owner", Value: "sam"}, {Key: "cleared", Value: "new"}}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if len(m.Fields) != 3 {
		t.Error("With must not modify the receiver")
	}
}

func TestMetadataString_CanonicalOrder(t *testing.T) {
	m := ParseMetadata("loose, owner: sam, cleared: b, created: a")
	if got := m.String(); got != "created: a, cleared: b, owner: sam, loose" {
		t.Errorf("String = %q", got)
	}
}

func TestParseMetadata_CommaInValue(t *testing.T) {
	m := ParseMetadata("note: milk, eggs, created: 2024-01-01T10:00:00")
	want := []Field{
		{Key: "note", Value: "milk, eggs"},
		{Key: "created", Value: "2024-01-01T10:00:00"},
	}
	if diff := cmp.Diff(want, m.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if m.Bare != "" {
		t.Errorf("bare = %q", m.Bare)
	}
}

func TestMetadataString_KeepsKeySpellingAndDuplicates(t *testing.T) {
	m := ParseMetadata("Created: a, owner: sam, CLEARED: b, created: c")
	if got := m.String(); got != "Created: a, created: c, CLEARED: b, owner: sam" {
		t.Errorf("String = %q", got)
	}
	if v, _ := m.Get(KeyCreated); v != "a" {
		t.Errorf("Get(created) = %q, want first value", v)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"- [ ] buy milk <!-- created: 2024-01-01T10:00:00 -->",
		"- [x] done <!-- created: 2024-01-01T10:00:00, cleared: 2024-01-02T10:00:00 -->",
		"- [ ] plain",
		"- [ ]",
	} {
		l, ok := Classify(raw)
		if !ok {
			t.Fatalf("Classify(%q) unrecognized", raw)
		}
		if got := l.Render(); got != raw {
			t.Errorf("Render = %q, want %q", got, raw)
		}
	}
}
