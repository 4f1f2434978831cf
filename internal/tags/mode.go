package tags

import (
	"fmt"
	"strings"
)

// Mode selects the per-token display transform.
type Mode int

const (
	// Original passes tokens through unchanged.
	Original Mode = iota
	// SpacesEscaped replaces underscores with spaces and escapes parentheses.
	SpacesEscaped
)

// String returns the config/flag name of the mode.
func (m Mode) String() string {
	switch m {
	case Original:
		return "original"
	case SpacesEscaped:
		return "spaces"
	default:
		return "unknown"
	}
}

// ParseMode converts a flag or config value into a Mode.
// Accepted names: "original", "spaces" (aliases "spaces-escaped", "escaped").
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "original":
		return Original, nil
	case "spaces", "spaces-escaped", "escaped":
		return SpacesEscaped, nil
	default:
		return Original, fmt.Errorf("unknown format %q (expected original or spaces)", name)
	}
}
