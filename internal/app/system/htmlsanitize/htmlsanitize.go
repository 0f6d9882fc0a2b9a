// Package htmlsanitize strips markup from user-submitted text before it is
// stored. Report reasons, moderator notes, warnings and review text are plain
// text; presentation code escapes them on output.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// PlainText removes all HTML tags (and the contents of script/style
// elements) and trims surrounding whitespace. Entities produced by the
// policy are decoded so "Tom & Jerry" round-trips unchanged.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	out := strictPolicy().Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(out))
}

// IsBlank reports whether s is empty once sanitized.
func IsBlank(s string) bool {
	return PlainText(s) == ""
}
