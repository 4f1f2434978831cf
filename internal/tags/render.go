// Package tags turns Danbooru tag strings into prompt-ready, comma-separated text.
//
// Raw tag groups use the site's convention: tokens separated by whitespace,
// underscores in place of spaces. Render formats one group for display;
// BuildExport flattens a whole Record into the string that gets copied or saved.
package tags

import "strings"

// Separator joins rendered tokens.
const Separator = ", "

var parenEscaper = strings.NewReplacer("(", `\(`, ")", `\)`)

// Render formats one raw tag group under the given mode.
// Empty and whitespace-only input yields "".
func Render(raw string, mode Mode) string {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return ""
	}
	for i, tok := range tokens {
		tokens[i] = transform(tok, mode)
	}
	return strings.Join(tokens, Separator)
}

// transform applies the per-token rule of mode.
// Underscores are replaced before parentheses are escaped.
func transform(token string, mode Mode) string {
	if mode != SpacesEscaped {
		return token
	}
	spaced := strings.ReplaceAll(token, "_", " ")
	return parenEscaper.Replace(spaced)
}
