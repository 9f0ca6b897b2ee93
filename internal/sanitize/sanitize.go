// Package sanitize normalizes and escapes free-text form values before they
// are interpolated into ticket descriptions.
package sanitize

import "strings"

// escaper replaces the characters that carry meaning in the HTML fragments we
// build. Quotes are deliberately left alone: values are never placed inside
// attributes, and Freshdesk renders them verbatim.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Normalize trims surrounding whitespace.
func Normalize(v string) string {
	return strings.TrimSpace(v)
}

// NormalizeAny trims string inputs; any other type yields the empty string.
// Form bodies are loosely typed, so callers at the boundary see any.
func NormalizeAny(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Normalize(s)
}

// Escape normalizes v and replaces &, < and > with their entity equivalents.
func Escape(v string) string {
	return escaper.Replace(Normalize(v))
}
