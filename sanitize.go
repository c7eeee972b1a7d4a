package datatable

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans markup returned by derived column values
// before it is inserted as raw HTML.
type Sanitizer interface {
	Sanitize(markup string) string
}

// SanitizerFunc implements Sanitizer for a function.
type SanitizerFunc func(markup string) string

func (f SanitizerFunc) Sanitize(markup string) string { return f(markup) }

// TrustMarkup is a Sanitizer returning the markup unchanged.
// Derived column values are trusted by default.
var TrustMarkup Sanitizer = SanitizerFunc(func(markup string) string { return markup })

// UGCSanitizer returns a Sanitizer based on the bluemonday
// user generated content policy that additionally allows
// the color style property on span elements and images
// with src and alt attributes, which covers colored labels
// and avatar images.
func UGCSanitizer() Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowStyles("color").OnElements("span")
	policy.AllowAttrs("src", "alt").OnElements("img")
	return policy
}

// StrictSanitizer returns a Sanitizer that removes all markup.
// The remaining text keeps its entities escaped,
// so the result is safe to insert as raw HTML.
func StrictSanitizer() Sanitizer {
	return SanitizerFunc(func(markup string) string {
		return strings.TrimSpace(stripPolicy.Sanitize(markup))
	})
}

var stripPolicy = bluemonday.StrictPolicy()

// StripMarkup removes all HTML elements from markup
// and returns the contained text with entities unescaped.
// The result is plain text for formats like CSV and must
// never be inserted as HTML without escaping.
func StripMarkup(markup string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(markup)))
}

// SanitizerByName returns the Sanitizer for one of
// the configuration names "trust" (or empty), "ugc", or "strict".
func SanitizerByName(name string) (Sanitizer, bool) {
	switch strings.ToLower(name) {
	case "", "trust", "none":
		return TrustMarkup, true
	case "ugc":
		return UGCSanitizer(), true
	case "strict":
		return StrictSanitizer(), true
	}
	return nil, false
}
