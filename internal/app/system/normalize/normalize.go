// Package normalize trims and canonicalizes user-supplied values before they
// are stored or compared.
package normalize

import (
	"strings"
	"unicode"

	"github.com/bonchi/carehub/internal/app/system/htmlsanitize"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// District strips markup from a district name and normalizes it like Name.
// Users and coordinator profiles both store districts in this form so their
// folded keys match.
func District(s string) string {
	return Name(htmlsanitize.PlainText(s))
}

// Role lowercases and trims a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query-string value, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Mobile reduces a phone number to its national 10-digit form.
// Separators are dropped, and a leading "+91"/"91" country code or a
// trunk "0" is removed. Anything that does not leave exactly ten digits is
// returned as the bare digit string so validation can reject it.
func Mobile(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return digits[1:]
	}
	return digits
}

// IsValidMobile reports whether s normalizes to ten digits that do not start
// with zero.
func IsValidMobile(s string) bool {
	m := Mobile(s)
	return len(m) == 10 && m[0] != '0'
}
