// Package services provides frontend-agnostic tag extraction logic.
// This layer sits between the CLI and the API client, sinks and state,
// so any frontend can drive the same workflow.
package services

import (
	"context"

	"github.com/booru-prompt/booru-prompt/internal/tags"
)

// Fetcher loads the tag record of one post.
// Failures wrap api.ErrNetwork or api.ErrNotFound.
type Fetcher interface {
	FetchRecord(ctx context.Context, id string) (tags.Record, error)
}

// ContextProvider reports the post the user is currently viewing.
type ContextProvider interface {
	CurrentIdentifier(ctx context.Context) (string, bool)
}

// Clipboard receives copied export text.
type Clipboard interface {
	Copy(text string) error
}

// FileSink persists export text and returns the path written.
type FileSink interface {
	Save(text, suggestedName string) (string, error)
}

// StatusFunc receives user-facing status lines.
type StatusFunc func(message string, isError bool)

// Status messages shown to the user.
const (
	StatusExtracted   = "Tags extracted successfully!"
	StatusCopied      = "Copied to clipboard!"
	StatusCopyFailed  = "Failed to copy to clipboard"
	StatusSaved       = "File saved successfully!"
	StatusMissingID   = "Please enter an image ID"
	StatusErrorPrefix = "Error: "
)

// GroupView is the per-group display of the current record.
type GroupView struct {
	Artist    string `json:"artist"`
	Character string `json:"character"`
	Origin    string `json:"origin"`
	Tags      string `json:"tags"`
}

// Options controls how the current record is exported.
type Options struct {
	IncludeArtist bool
	Mode          tags.Mode
}
