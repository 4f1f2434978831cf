package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/booru-prompt/booru-prompt/internal/api"
	"github.com/booru-prompt/booru-prompt/internal/constants"
	"github.com/booru-prompt/booru-prompt/internal/logging"
	"github.com/booru-prompt/booru-prompt/internal/state"
	"github.com/booru-prompt/booru-prompt/internal/tags"
)

var (
	// ErrMissingID is returned when no post ID was given.
	ErrMissingID = errors.New("missing post ID")

	// ErrInvalidID is returned when the post ID is not numeric.
	ErrInvalidID = api.ErrInvalidID

	// ErrNoContext is returned when the context provider has no post.
	ErrNoContext = errors.New("no post found in current context")

	// ErrNoRecord is returned by export operations before any successful fetch.
	ErrNoRecord = errors.New("no tags extracted yet")

	// ErrNoClipboard and ErrNoFileSink report a missing collaborator.
	ErrNoClipboard = errors.New("clipboard not configured")
	ErrNoFileSink  = errors.New("file sink not configured")
)

// TagService coordinates fetching, the current record and the sinks.
type TagService struct {
	fetcher   Fetcher
	context   ContextProvider
	clipboard Clipboard
	files     FileSink
	state     *state.RecordState
	logger    *logging.Logger
	status    StatusFunc
}

// Config wires a TagService. Only Fetcher is required.
type Config struct {
	Fetcher   Fetcher
	Context   ContextProvider
	Clipboard Clipboard
	Files     FileSink
	Logger    *logging.Logger
	Status    StatusFunc
}

// NewTagService creates a TagService with an empty record slot.
func NewTagService(cfg Config) *TagService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	status := cfg.Status
	if status == nil {
		status = func(string, bool) {}
	}
	return &TagService{
		fetcher:   cfg.Fetcher,
		context:   cfg.Context,
		clipboard: cfg.Clipboard,
		files:     cfg.Files,
		state:     state.NewRecordState(),
		logger:    logger,
		status:    status,
	}
}

// Extract fetches post id and makes it the current record.
// A failed fetch leaves the previous record in place.
func (s *TagService) Extract(ctx context.Context, id string) (state.Snapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		s.status(StatusMissingID, true)
		return state.Snapshot{}, ErrMissingID
	}
	if err := api.ValidatePostID(id); err != nil {
		s.fail(err)
		return state.Snapshot{}, err
	}

	s.logger.Debug().Str("post_id", id).Msg("Fetching post tags")
	rec, err := s.fetcher.FetchRecord(ctx, id)
	if err != nil {
		s.fail(err)
		return state.Snapshot{}, fmt.Errorf("failed to fetch post %s: %w", id, err)
	}

	snap := s.state.Set(id, rec)
	s.status(StatusExtracted, false)
	return snap, nil
}

// ExtractCurrent extracts the post reported by the context provider.
func (s *TagService) ExtractCurrent(ctx context.Context) (state.Snapshot, error) {
	if s.context == nil {
		return state.Snapshot{}, ErrNoContext
	}
	id, ok := s.context.CurrentIdentifier(ctx)
	if !ok {
		s.logger.Debug().Msg("No post URL in current context")
		return state.Snapshot{}, ErrNoContext
	}
	return s.Extract(ctx, id)
}

// Current returns the current record, if any.
func (s *TagService) Current() (state.Snapshot, bool) {
	return s.state.Current()
}

// Display renders each group of the current record separately.
// ok is false before the first fetch and when every group is empty, in
// which case the previous display should be left alone.
func (s *TagService) Display(mode tags.Mode) (GroupView, bool) {
	snap, ok := s.state.Current()
	if !ok || snap.Record.IsEmpty() {
		return GroupView{}, false
	}
	rec := snap.Record
	return GroupView{
		Artist:    tags.Render(rec.Artist, mode),
		Character: tags.Render(rec.Character, mode),
		Origin:    tags.Render(rec.Origin, mode),
		Tags:      tags.Render(rec.Tags, mode),
	}, true
}

// Export flattens the current record into a single prompt string.
func (s *TagService) Export(opts Options) (string, error) {
	snap, ok := s.state.Current()
	if !ok {
		return "", ErrNoRecord
	}
	return tags.BuildExport(snap.Record, opts.IncludeArtist, opts.Mode), nil
}

// Copy exports the current record to the clipboard.
func (s *TagService) Copy(opts Options) (string, error) {
	if s.clipboard == nil {
		return "", ErrNoClipboard
	}
	text, err := s.Export(opts)
	if err != nil {
		return "", err
	}
	if err := s.clipboard.Copy(text); err != nil {
		s.logger.Debug().Err(err).Msg("Clipboard write failed")
		s.status(StatusCopyFailed, true)
		return "", err
	}
	s.status(StatusCopied, false)
	return text, nil
}

// Save exports the current record to a file named after the post.
func (s *TagService) Save(opts Options) (string, error) {
	if s.files == nil {
		return "", ErrNoFileSink
	}
	snap, ok := s.state.Current()
	if !ok {
		return "", ErrNoRecord
	}

	text := tags.BuildExport(snap.Record, opts.IncludeArtist, opts.Mode)
	path, err := s.files.Save(text, ExportFileName(snap.PostID))
	if err != nil {
		s.fail(err)
		return "", err
	}
	s.logger.Debug().Str("path", path).Msg("Export written")
	s.status(StatusSaved, false)
	return path, nil
}

// ExportFileName is the suggested file name for a post's export.
func ExportFileName(postID string) string {
	return constants.ExportFilePrefix + postID + constants.ExportFileExt
}

func (s *TagService) fail(err error) {
	s.status(StatusErrorPrefix+err.Error(), true)
}
