// Package pageurl finds the Danbooru post the user is currently looking at.
//
// In the browser the "current page" is the active tab. On the command line
// it is whatever post URL (or bare ID) the user last copied.
package pageurl

import (
	"context"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
)

var (
	danbooruPostPattern = regexp.MustCompile(`danbooru\.donmai\.us/posts/(\d+)`)
	genericPostPattern  = regexp.MustCompile(`^https?://[^/\s]+/posts/(\d+)(?:[/?#.]|$)`)
	bareIDPattern       = regexp.MustCompile(`^\d+$`)
)

// invisibleChars are stripped from copied text before matching.
var invisibleChars = strings.NewReplacer(
	"\u200B", "", // zero-width space
	"\u200C", "", // zero-width non-joiner
	"\u200D", "", // zero-width joiner
	"\uFEFF", "", // BOM
	"\u2060", "", // word joiner
)

// IdentifierFromURL extracts the post ID from a Danbooru post address.
// Addresses on other hosts are accepted when they use the same
// /posts/<digits> layout, which covers Danbooru mirrors.
func IdentifierFromURL(raw string) (string, bool) {
	s := strings.TrimSpace(invisibleChars.Replace(raw))
	if s == "" {
		return "", false
	}

	if m := danbooruPostPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := genericPostPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

// Identifier accepts either a bare post ID or a post URL.
func Identifier(input string) (string, bool) {
	s := strings.TrimSpace(invisibleChars.Replace(input))
	if bareIDPattern.MatchString(s) {
		return s, true
	}
	return IdentifierFromURL(s)
}

// ClipboardContext reads the current post from the system clipboard.
type ClipboardContext struct {
	// ReadAll defaults to clipboard.ReadAll.
	ReadAll func() (string, error)
}

// NewClipboardContext returns a context provider backed by the system clipboard.
func NewClipboardContext() *ClipboardContext {
	return &ClipboardContext{ReadAll: clipboard.ReadAll}
}

// CurrentIdentifier returns the post ID found on the clipboard, if any.
// Clipboard failures (no display, missing xclip) count as "no context".
func (c *ClipboardContext) CurrentIdentifier(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	read := c.ReadAll
	if read == nil {
		read = clipboard.ReadAll
	}
	text, err := read()
	if err != nil {
		return "", false
	}
	return IdentifierFromURL(text)
}

// StaticContext is a fixed address, used when the URL is given on the command line.
type StaticContext string

// CurrentIdentifier extracts the post ID from the fixed address.
func (s StaticContext) CurrentIdentifier(ctx context.Context) (string, bool) {
	return IdentifierFromURL(string(s))
}
