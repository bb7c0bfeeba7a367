package models

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitiseText strips all HTML from text that ends up inside a rendered chart.
// bluemonday escapes what it keeps, so the result is unescaped again to give
// the renderer plain text.
func SanitiseText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
