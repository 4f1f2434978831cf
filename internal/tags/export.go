package tags

import "strings"

// Record holds the four raw tag groups of one post.
// Absent groups are empty strings, never missing.
type Record struct {
	Artist    string `json:"artist"`
	Character string `json:"character"`
	Origin    string `json:"origin"`
	Tags      string `json:"tags"`
}

// IsEmpty reports whether every group is empty.
func (r Record) IsEmpty() bool {
	return r.Artist == "" && r.Character == "" && r.Origin == "" && r.Tags == ""
}

// BuildExport flattens rec into a single comma-separated prompt string.
//
// Groups appear in fixed order: artist (only when includeArtist), character,
// origin, general tags. The included raw strings are joined before
// tokenizing, so the result is one flat list with no group boundaries.
func BuildExport(rec Record, includeArtist bool, mode Mode) string {
	parts := make([]string, 0, 4)
	if includeArtist && rec.Artist != "" {
		parts = append(parts, rec.Artist)
	}
	for _, group := range []string{rec.Character, rec.Origin, rec.Tags} {
		if group != "" {
			parts = append(parts, group)
		}
	}
	return Render(strings.Join(parts, " "), mode)
}
