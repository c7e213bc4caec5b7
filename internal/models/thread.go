// Package models defines the JSON shapes shared by the service, REST and MCP layers.
package models

import "time"

// Thread is one thread line as exposed to clients.
type Thread struct {
	Line    int        `json:"line"` // 1-based line number in the file
	Ordinal *int       `json:"ordinal,omitempty"` // 0-based among open threads; nil when closed
	Status  string     `json:"status"`
	Body    string     `json:"body"`
	Created *time.Time `json:"created,omitempty"`
	Cleared *time.Time `json:"cleared,omitempty"`
	Raw     string     `json:"raw"`
}

// DroppedLine is a non-thread line discarded by a reorder.
type DroppedLine struct {
	Line int    `json:"line"` // 1-based
	Text string `json:"text"`
}

// ReorderSummary reports the outcome of a reorder.
type ReorderSummary struct {
	Open    int           `json:"open"`
	Closed  int           `json:"closed"`
	Dropped []DroppedLine `json:"dropped"`
}

// Counts summarises the document.
type Counts struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
}
