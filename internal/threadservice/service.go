// Package threadservice runs thread operations against the threads file:
// load, transform, save, then refresh the index and notify listeners.
package threadservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/threads/internal/apperr"
	"github.com/starford/threads/internal/index"
	"github.com/starford/threads/internal/models"
	"github.com/starford/threads/internal/storage"
	"github.com/starford/threads/internal/thread"
	"github.com/starford/threads/internal/timestamp"
)

// Status filters for List.
const (
	FilterOpen   = "open"
	FilterClosed = "closed"
	FilterAll    = "all"
)

// Event kinds passed to the Notifier.
const (
	EventAdded     = "added"
	EventClosed    = "closed"
	EventReordered = "reordered"
)

// Notifier is called after each successful write.
type Notifier func(kind string, t *models.Thread)

// Service coordinates the file gateway, the thread core and the index.
type Service struct {
	store  storage.Provider
	db     index.ThreadIndex // may be nil
	clock  timestamp.Clock
	logger *slog.Logger
	notify Notifier
}

// Option configures a Service.
type Option func(*Service)

// WithIndex keeps db in sync after every write and enables Search.
func WithIndex(db index.ThreadIndex) Option {
	return func(s *Service) { s.db = db }
}

// WithClock overrides the time source used for stamps.
func WithClock(c timestamp.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithNotifier registers a change callback.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// NewService creates a new thread service.
func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  timestamp.System(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the threads file path.
func (s *Service) Path() string {
	return s.store.Path()
}

// Checksum returns the SHA-256 of the threads file's current content.
func (s *Service) Checksum() (string, error) {
	return s.store.Checksum()
}

// List returns thread lines in file order, filtered by status.
func (s *Service) List(_ context.Context, filter string) ([]models.Thread, error) {
	if err := validation.Validate(filter, validation.In(FilterOpen, FilterClosed, FilterAll, "")); err != nil {
		return nil, fmt.Errorf("%w %q: %v", apperr.ErrInvalidFilter, filter, err)
	}
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	out := []models.Thread{}
	for _, e := range doc.Threads() {
		if filter == FilterOpen && e.Line.Status != thread.Open ||
			filter == FilterClosed && e.Line.Status != thread.Closed {
			continue
		}
		out = append(out, toModel(e))
	}
	return out, nil
}

// Add appends a new open thread stamped with the current time.
func (s *Service) Add(_ context.Context, body string) (*models.Thread, error) {
	body = strings.TrimSpace(body)
	if err := validateBody(body); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidBody, err)
	}
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	doc = doc.Append(thread.New(body, s.clock.Now()))
	if err := s.store.Save(doc); err != nil {
		return nil, err
	}
	threads := doc.Threads()
	added := toModel(threads[len(threads)-1])
	s.logger.Info("thread added", slog.String("body", body), slog.Int("line", added.Line))
	s.afterWrite(doc, EventAdded, &added)
	return &added, nil
}

// Complete closes the nth open thread (0-based, file order).
func (s *Service) Complete(_ context.Context, n int) (*models.Thread, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	positions := doc.OpenPositions()
	out, ok := thread.MarkNthOpenDone(doc, n, s.clock.Now())
	if !ok {
		return nil, fmt.Errorf("%w: %d (open threads: %d)", apperr.ErrOutOfRange, n, len(positions))
	}
	if err := s.store.Save(out); err != nil {
		return nil, err
	}
	idx := positions[n]
	line, _ := thread.Classify(out[idx])
	closed := toModel(thread.Entry{Index: idx, Ordinal: -1, Line: line})
	s.logger.Info("thread closed", slog.String("body", closed.Body), slog.Int("line", closed.Line))
	s.afterWrite(out, EventClosed, &closed)
	return &closed, nil
}

// Reorder rewrites the file into sorted Open/Closed sections. Lines that are
// not threads are dropped; each one is logged as a warning and reported.
func (s *Service) Reorder(_ context.Context) (*models.ReorderSummary, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	res := thread.ReorderReport(doc)
	if err := s.store.Save(res.Document); err != nil {
		return nil, err
	}
	summary := &models.ReorderSummary{Open: res.Open, Closed: res.Closed, Dropped: []models.DroppedLine{}}
	for _, d := range res.Dropped {
		s.logger.Warn("reorder dropped line", slog.Int("line", d.Index+1), slog.String("text", d.Text))
		summary.Dropped = append(summary.Dropped, models.DroppedLine{Line: d.Index + 1, Text: d.Text})
	}
	s.logger.Info("threads reordered", slog.Int("open", res.Open), slog.Int("closed", res.Closed))
	s.afterWrite(res.Document, EventReordered, nil)
	return summary, nil
}

// Counts returns the number of open and closed threads.
func (s *Service) Counts(_ context.Context) (models.Counts, error) {
	doc, err := s.store.Load()
	if err != nil {
		return models.Counts{}, err
	}
	var c models.Counts
	for _, e := range doc.Threads() {
		if e.Line.Status == thread.Open {
			c.Open++
		} else {
			c.Closed++
		}
	}
	return c, nil
}

// Search brings the index up to date and queries it.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, apperr.ErrNoIndex
	}
	if _, err := index.Sync(s.db, s.store, s.logger); err != nil {
		return nil, err
	}
	return s.db.Search(query, limit)
}

func (s *Service) afterWrite(doc thread.Document, kind string, t *models.Thread) {
	if s.db != nil {
		if err := index.Replace(s.db, doc); err != nil {
			s.logger.Warn("reindex failed", slog.String("error", err.Error()))
		}
	}
	if s.notify != nil {
		s.notify(kind, t)
	}
}

func validateBody(body string) error {
	return validation.Validate(body,
		validation.Required,
		validation.Length(1, 2000),
		validation.By(func(v any) error {
			s, _ := v.(string)
			if strings.ContainsAny(s, "\r\n") {
				return fmt.Errorf("must be a single line")
			}
			if strings.Contains(s, "<!--") || strings.Contains(s, "-->") {
				return fmt.Errorf("must not contain comment delimiters")
			}
			return nil
		}),
	)
}

func toModel(e thread.Entry) models.Thread {
	m := models.Thread{
		Line:   e.Index + 1,
		Status: e.Line.Status.String(),
		Body:   e.Line.Body,
		Raw:    e.Line.Raw,
	}
	if e.Ordinal >= 0 {
		n := e.Ordinal
		m.Ordinal = &n
	}
	if t, ok := e.Line.Created(); ok {
		m.Created = &t
	}
	if t, ok := e.Line.Cleared(); ok {
		m.Cleared = &t
	}
	return m
}
