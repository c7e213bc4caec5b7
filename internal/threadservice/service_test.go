package threadservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/threads/internal/apperr"
	"github.com/starford/threads/internal/models"
	"github.com/starford/threads/internal/testutil"
)

const sample = "# Open Threads\n\n" +
	"- [ ] buy milk <!-- created: 2024-01-01T10:00:00 -->\n" +
	"- [x] file taxes <!-- cleared: 2023-04-10T17:00:00 -->\n" +
	"- [ ] call mum <!-- 2024-01-05T08:00:00 -->\n"

type event struct {
	kind string
	body string
}

func newTestService(t *testing.T, content string, opts ...Option) (*Service, *[]event) {
	t.Helper()
	var events []event
	opts = append([]Option{
		WithIndex(testutil.TestDB(t)),
		WithClock(testutil.Clock()),
		WithLogger(testutil.Logger()),
		WithNotifier(func(kind string, th *models.Thread) {
			e := event{kind: kind}
			if th != nil {
				e.body = th.Body
			}
			events = append(events, e)
		}),
	}, opts...)
	return NewService(testutil.TestStore(t, content), opts...), &events
}

func bodies(items []models.Thread) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Body
	}
	return out
}

func TestList_Filters(t *testing.T) {
	svc, _ := newTestService(t, sample)
	ctx := context.Background()

	cases := map[string][]string{
		"":       {"buy milk", "call mum"},
		"open":   {"buy milk", "call mum"},
		"closed": {"file taxes"},
		"all":    {"buy milk", "file taxes", "call mum"},
	}
	for filter, want := range cases {
		got, err := svc.List(ctx, filter)
		if err != nil {
			t.Fatalf("%q: %v", filter, err)
		}
		if diff := cmp.Diff(want, bodies(got)); diff != "" {
			t.Errorf("filter %q (-want +got):\n%s", filter, diff)
		}
	}

	if _, err := svc.List(ctx, "later"); !errors.Is(err, apperr.ErrInvalidFilter) {
		t.Errorf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestList_EmptyFileCreatesTemplate(t *testing.T) {
	svc, _ := newTestService(t, "")
	got, err := svc.List(context.Background(), FilterAll)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestAdd(t *testing.T) {
	svc, events := newTestService(t, sample)
	th, err := svc.Add(context.Background(), "  water plants  ")
	if err != nil {
		t.Fatal(err)
	}
	if th.Body != "water plants" || th.Line != 6 || th.Ordinal == nil || *th.Ordinal != 2 {
		t.Errorf("thread = %+v", th)
	}
	if th.Created == nil || !th.Created.Equal(testutil.Now) {
		t.Errorf("created = %v", th.Created)
	}
	if diff := cmp.Diff([]event{{EventAdded, "water plants"}}, *events, cmp.AllowUnexported(event{})); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestAdd_RejectsInvalidBody(t *testing.T) {
	svc, events := newTestService(t, sample)
	for _, body := range []string{"", "  ", "a\nb", "x <!-- y", "x --> y", strings.Repeat("a", 2001)} {
		if _, err := svc.Add(context.Background(), body); !errors.Is(err, apperr.ErrInvalidBody) {
			t.Errorf("body %q: err = %v", body, err)
		}
	}
	if len(*events) != 0 {
		t.Errorf("events = %v", *events)
	}
}

func TestComplete_AdoptsBareTimestamp(t *testing.T) {
	svc, events := newTestService(t, sample)
	th, err := svc.Complete(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := "- [x] call mum <!-- created: 2024-01-05T08:00:00, cleared: 2024-02-02T12:00:00 -->"
	if th.Raw != want || th.Status != "closed" || th.Ordinal != nil {
		t.Errorf("thread = %+v", th)
	}
	if len(*events) != 1 || (*events)[0].kind != EventClosed {
		t.Errorf("events = %v", *events)
	}
}

func TestComplete_OutOfRange(t *testing.T) {
	svc, events := newTestService(t, sample)
	for _, n := range []int{-1, 2} {
		_, err := svc.Complete(context.Background(), n)
		if !errors.Is(err, apperr.ErrOutOfRange) {
			t.Errorf("n=%d: err = %v", n, err)
		}
	}
	if len(*events) != 0 {
		t.Errorf("events = %v", *events)
	}
}

func TestReorder_WarnsOnDroppedLines(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc, events := newTestService(t, sample, WithLogger(logger))

	res, err := svc.Reorder(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := &models.ReorderSummary{
		Open:    2,
		Closed:  1,
		Dropped: []models.DroppedLine{{Line: 1, Text: "# Open Threads"}},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), `level=WARN msg="reorder dropped line" line=1`) {
		t.Errorf("logs = %s", logs.String())
	}
	if len(*events) != 1 || (*events)[0].kind != EventReordered {
		t.Errorf("events = %v", *events)
	}

	// A bare comment is not a created stamp, so call mum sorts last.
	got, _ := svc.List(context.Background(), FilterOpen)
	if diff := cmp.Diff([]string{"buy milk", "call mum"}, bodies(got)); diff != "" {
		t.Errorf("open order (-want +got):\n%s", diff)
	}
}

func TestCounts(t *testing.T) {
	svc, _ := newTestService(t, sample)
	c, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c != (models.Counts{Open: 2, Closed: 1}) {
		t.Errorf("counts = %+v", c)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t, sample)
	res, err := svc.Search(context.Background(), "mum", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].Line != 5 {
		t.Errorf("results = %+v", res)
	}

	bare := NewService(testutil.TestStore(t, sample), WithLogger(testutil.Logger()))
	if _, err := bare.Search(context.Background(), "mum", 10); !errors.Is(err, apperr.ErrNoIndex) {
		t.Errorf("err = %v, want ErrNoIndex", err)
	}
}
