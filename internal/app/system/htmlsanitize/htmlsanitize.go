// Package htmlsanitize strips markup from user-supplied text before storage.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
)

func policies() {
	once.Do(func() {
		strict = bluemonday.StrictPolicy()
		ugc = bluemonday.UGCPolicy()
	})
}

// Sanitize keeps safe formatting markup and removes scripts, event handlers
// and dangerous URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	policies()
	return ugc.Sanitize(s)
}

// PlainText removes all markup and returns trimmed text. Entities that
// bluemonday escapes are decoded again so "&" stays "&" in stored values.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	policies()
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
