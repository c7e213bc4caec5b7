// Package timestamp parses and formats the ISO-8601 values embedded in
// thread metadata comments.
package timestamp

import (
	"strings"
	"time"
)

// Layout is the second-precision form written when stamping metadata.
const Layout = "2006-01-02T15:04:05"

// zoned layouts carry an explicit offset; the rest are read as local time.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04Z07:00",
	}
	localLayouts = []string{
		Layout,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// Parse reads an ISO-8601 datetime. Malformed input yields ok == false,
// never an error.
func Parse(text string) (t time.Time, ok bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Format renders t in local wall time with second precision.
func Format(t time.Time) string {
	return t.In(time.Local).Format(Layout)
}

// Clock is the current-time source used when stamping metadata.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// System returns a Clock backed by time.Now.
func System() Clock {
	return ClockFunc(time.Now)
}

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
