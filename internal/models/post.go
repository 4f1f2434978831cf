// Package models holds the Danbooru API payloads used by booru-prompt.
package models

import "github.com/booru-prompt/booru-prompt/internal/tags"

// Post is the subset of a Danbooru post payload (GET /posts/{id}.json) we read.
// Missing or null tag strings decode as "".
type Post struct {
	ID                 int64  `json:"id"`
	Rating             string `json:"rating,omitempty"`
	Source             string `json:"source,omitempty"`
	FileExt            string `json:"file_ext,omitempty"`
	TagStringArtist    string `json:"tag_string_artist"`
	TagStringCharacter string `json:"tag_string_character"`
	TagStringCopyright string `json:"tag_string_copyright"`
	TagStringGeneral   string `json:"tag_string_general"`
}

// Record maps the post's tag strings onto a tag record.
// Copyright tags become the origin group.
func (p *Post) Record() tags.Record {
	if p == nil {
		return tags.Record{}
	}
	return tags.Record{
		Artist:    p.TagStringArtist,
		Character: p.TagStringCharacter,
		Origin:    p.TagStringCopyright,
		Tags:      p.TagStringGeneral,
	}
}

// APIError is the error body Danbooru returns alongside non-2xx statuses.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
