// Package sink delivers the export string to the clipboard or to disk.
package sink

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard writes text to the system clipboard.
type Clipboard struct {
	// WriteAll defaults to clipboard.WriteAll.
	WriteAll func(text string) error
}

// NewClipboard returns a sink backed by the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{WriteAll: clipboard.WriteAll}
}

// Copy places text on the clipboard.
func (c *Clipboard) Copy(text string) error {
	write := c.WriteAll
	if write == nil {
		if clipboard.Unsupported {
			return fmt.Errorf("clipboard is not supported on this system")
		}
		write = clipboard.WriteAll
	}
	if err := write(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
