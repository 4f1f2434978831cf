package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/booru-prompt/booru-prompt/internal/api"
	"github.com/booru-prompt/booru-prompt/internal/logging"
	"github.com/booru-prompt/booru-prompt/internal/tags"
)

type fakeFetcher struct {
	records map[string]tags.Record
	err     error
	calls   []string
	mu      sync.Mutex
}

func (f *fakeFetcher) FetchRecord(ctx context.Context, id string) (tags.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.err != nil {
		return tags.Record{}, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return tags.Record{}, fmt.Errorf("get post %s failed: %w", id, api.ErrNotFound)
	}
	return rec, nil
}

type fakeContext struct {
	id string
	ok bool
}

func (c fakeContext) CurrentIdentifier(ctx context.Context) (string, bool) {
	return c.id, c.ok
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeFiles struct {
	text string
	name string
	err  error
}

func (f *fakeFiles) Save(text, suggestedName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.text, f.name = text, suggestedName
	return "/out/" + suggestedName, nil
}

type statusLog struct {
	messages []string
	errors   []bool
	mu       sync.Mutex
}

func (l *statusLog) record(message string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, message)
	l.errors = append(l.errors, isError)
}

func (l *statusLog) last() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.messages) == 0 {
		return "", false
	}
	return l.messages[len(l.messages)-1], l.errors[len(l.errors)-1]
}

var samplePost = tags.Record{
	Artist:    "artist_a",
	Character: "char_(x)",
	Origin:    "series_y",
	Tags:      "1girl solo",
}

type fixture struct {
	svc       *TagService
	fetcher   *fakeFetcher
	clipboard *fakeClipboard
	files     *fakeFiles
	status    *statusLog
}

func newFixture() *fixture {
	f := &fixture{
		fetcher: &fakeFetcher{records: map[string]tags.Record{
			"1": samplePost,
			"2": {Tags: "landscape"},
			"3": {},
		}},
		clipboard: &fakeClipboard{},
		files:     &fakeFiles{},
		status:    &statusLog{},
	}
	f.svc = NewTagService(Config{
		Fetcher:   f.fetcher,
		Context:   fakeContext{id: "2", ok: true},
		Clipboard: f.clipboard,
		Files:     f.files,
		Logger:    logging.NewLogger(logging.Options{Out: io.Discard}),
		Status:    f.status.record,
	})
	return f
}

func TestExtract(t *testing.T) {
	f := newFixture()

	snap, err := f.svc.Extract(context.Background(), " 1 ")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if snap.PostID != "1" || snap.Record != samplePost {
		t.Errorf("Extract() = %+v", snap)
	}
	if msg, isErr := f.status.last(); msg != StatusExtracted || isErr {
		t.Errorf("status = %q (error=%v), want %q", msg, isErr, StatusExtracted)
	}
}

func TestExtractMissingID(t *testing.T) {
	f := newFixture()

	for _, id := range []string{"", "   "} {
		if _, err := f.svc.Extract(context.Background(), id); !errors.Is(err, ErrMissingID) {
			t.Errorf("Extract(%q) error = %v, want ErrMissingID", id, err)
		}
	}
	if msg, isErr := f.status.last(); msg != StatusMissingID || !isErr {
		t.Errorf("status = %q (error=%v), want %q", msg, isErr, StatusMissingID)
	}
	if len(f.fetcher.calls) != 0 {
		t.Errorf("fetcher called with %v", f.fetcher.calls)
	}
}

func TestExtractInvalidID(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Extract(context.Background(), "abc"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Extract() error = %v, want ErrInvalidID", err)
	}
	if len(f.fetcher.calls) != 0 {
		t.Errorf("fetcher called with %v", f.fetcher.calls)
	}
}

func TestExtractFailureKeepsPreviousRecord(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Extract(context.Background(), "1"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	_, err := f.svc.Extract(context.Background(), "404")
	if !api.IsNotFound(err) {
		t.Fatalf("Extract() error = %v, want not found", err)
	}
	if msg, isErr := f.status.last(); !isErr || !strings.HasPrefix(msg, StatusErrorPrefix) {
		t.Errorf("status = %q (error=%v), want error status", msg, isErr)
	}

	snap, ok := f.svc.Current()
	if !ok || snap.PostID != "1" || snap.Record != samplePost {
		t.Errorf("Current() = %+v, %v; want post 1 unchanged", snap, ok)
	}
}

func TestExtractNetworkError(t *testing.T) {
	f := newFixture()
	f.fetcher.err = fmt.Errorf("%w: connection refused", api.ErrNetwork)

	_, err := f.svc.Extract(context.Background(), "1")
	if !api.IsNetworkError(err) {
		t.Errorf("Extract() error = %v, want network error", err)
	}
	if _, ok := f.svc.Current(); ok {
		t.Error("failed first fetch must leave state empty")
	}
}

func TestExtractReplacesWholesale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.svc.Extract(ctx, "1")
	f.svc.Extract(ctx, "2")

	snap, _ := f.svc.Current()
	if snap.Record != (tags.Record{Tags: "landscape"}) {
		t.Errorf("Current() record = %+v, want only post 2's groups", snap.Record)
	}
}

func TestExtractCurrent(t *testing.T) {
	f := newFixture()

	snap, err := f.svc.ExtractCurrent(context.Background())
	if err != nil {
		t.Fatalf("ExtractCurrent() error = %v", err)
	}
	if snap.PostID != "2" {
		t.Errorf("PostID = %q, want 2", snap.PostID)
	}
}

func TestExtractCurrentNoContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  ContextProvider
	}{
		{"nil provider", nil},
		{"no post", fakeContext{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			svc := NewTagService(Config{
				Fetcher: fetcher,
				Context: tt.ctx,
				Logger:  logging.NewLogger(logging.Options{Out: io.Discard}),
			})
			if _, err := svc.ExtractCurrent(context.Background()); !errors.Is(err, ErrNoContext) {
				t.Errorf("ExtractCurrent() error = %v, want ErrNoContext", err)
			}
			if len(fetcher.calls) != 0 {
				t.Errorf("fetcher called with %v", fetcher.calls)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	f := newFixture()

	if _, ok := f.svc.Display(tags.Original); ok {
		t.Error("Display() before any fetch should report nothing to show")
	}

	f.svc.Extract(context.Background(), "1")

	got, ok := f.svc.Display(tags.SpacesEscaped)
	if !ok {
		t.Fatal("Display() ok = false after fetch")
	}
	want := GroupView{
		Artist:    "artist a",
		Character: `char \(x\)`,
		Origin:    "series y",
		Tags:      "1girl, solo",
	}
	if got != want {
		t.Errorf("Display() = %+v, want %+v", got, want)
	}

	got, _ = f.svc.Display(tags.Original)
	if got.Character != "char_(x)" {
		t.Errorf("Display(Original).Character = %q", got.Character)
	}
}

func TestDisplayAllEmpty(t *testing.T) {
	f := newFixture()
	f.svc.Extract(context.Background(), "3")

	if _, ok := f.svc.Display(tags.Original); ok {
		t.Error("Display() should report nothing to show for an all-empty record")
	}
}

func TestExport(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Export(Options{IncludeArtist: true}); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Export() before fetch error = %v, want ErrNoRecord", err)
	}

	f.svc.Extract(context.Background(), "1")

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"original with artist", Options{IncludeArtist: true, Mode: tags.Original}, "artist_a, char_(x), series_y, 1girl, solo"},
		{"original without artist", Options{IncludeArtist: false, Mode: tags.Original}, "char_(x), series_y, 1girl, solo"},
		{"escaped with artist", Options{IncludeArtist: true, Mode: tags.SpacesEscaped}, `artist a, char \(x\), series y, 1girl, solo`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Export(tt.opts)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Export() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCopy(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Copy(Options{}); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Copy() before fetch error = %v, want ErrNoRecord", err)
	}

	f.svc.Extract(context.Background(), "2")
	text, err := f.svc.Copy(Options{IncludeArtist: true})
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if text != "landscape" || f.clipboard.text != "landscape" {
		t.Errorf("Copy() = %q, clipboard = %q", text, f.clipboard.text)
	}
	if msg, _ := f.status.last(); msg != StatusCopied {
		t.Errorf("status = %q, want %q", msg, StatusCopied)
	}
}

func TestCopyFailure(t *testing.T) {
	f := newFixture()
	f.clipboard.err = errors.New("xclip not found")
	f.svc.Extract(context.Background(), "1")

	if _, err := f.svc.Copy(Options{}); err == nil {
		t.Fatal("expected copy error")
	}
	if msg, isErr := f.status.last(); msg != StatusCopyFailed || !isErr {
		t.Errorf("status = %q (error=%v), want %q", msg, isErr, StatusCopyFailed)
	}
}

func TestSave(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Save(Options{}); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Save() before fetch error = %v, want ErrNoRecord", err)
	}

	f.svc.Extract(context.Background(), "1")
	path, err := f.svc.Save(Options{IncludeArtist: false, Mode: tags.SpacesEscaped})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != "/out/danbooru_tags_1.txt" {
		t.Errorf("Save() path = %q", path)
	}
	if f.files.name != "danbooru_tags_1.txt" {
		t.Errorf("suggested name = %q", f.files.name)
	}
	if f.files.text != `char \(x\), series y, 1girl, solo` {
		t.Errorf("saved text = %q", f.files.text)
	}
	if msg, _ := f.status.last(); msg != StatusSaved {
		t.Errorf("status = %q, want %q", msg, StatusSaved)
	}
}

func TestSaveFailure(t *testing.T) {
	f := newFixture()
	f.files.err = errors.New("disk full")
	f.svc.Extract(context.Background(), "1")

	if _, err := f.svc.Save(Options{}); err == nil {
		t.Fatal("expected save error")
	}
	if msg, isErr := f.status.last(); msg != "Error: disk full" || !isErr {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestMissingSinks(t *testing.T) {
	svc := NewTagService(Config{
		Fetcher: &fakeFetcher{records: map[string]tags.Record{"1": samplePost}},
		Logger:  logging.NewLogger(logging.Options{Out: io.Discard}),
	})
	svc.Extract(context.Background(), "1")

	if _, err := svc.Copy(Options{}); !errors.Is(err, ErrNoClipboard) {
		t.Errorf("Copy() error = %v, want ErrNoClipboard", err)
	}
	if _, err := svc.Save(Options{}); !errors.Is(err, ErrNoFileSink) {
		t.Errorf("Save() error = %v, want ErrNoFileSink", err)
	}
}

func TestConcurrentExtract(t *testing.T) {
	f := newFixture()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := []string{"1", "2"}[i%2]
			f.svc.Extract(context.Background(), id)
			f.svc.Display(tags.Original)
		}(i)
	}
	wg.Wait()

	snap, ok := f.svc.Current()
	if !ok {
		t.Fatal("expected populated state")
	}
	want := f.fetcher.records[snap.PostID]
	if snap.Record != want {
		t.Errorf("Current() = %+v, record does not match post %s", snap, snap.PostID)
	}
}

func TestExportFileName(t *testing.T) {
	if got := ExportFileName("12345"); got != "danbooru_tags_12345.txt" {
		t.Errorf("ExportFileName() = %q", got)
	}
}
