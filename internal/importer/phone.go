// internal/importer/phone.go
package importer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	indianMobile = regexp.MustCompile(`^\+91\d{10}$`)
	tenDigits    = regexp.MustCompile(`^\d{10}$`)
	twelveDigits = regexp.MustCompile(`^91\d{10}$`)
)

// NormalizePhone converts a human-entered phone number into the canonical
// +91XXXXXXXXXX form. Whitespace, hyphens and parentheses are stripped; a
// bare 10-digit number gets the +91 prefix, a 12-digit number starting with
// 91 gets a +. Returns ok=false when the result is not an Indian mobile
// number. Leading-digit conventions (6-9) are deliberately not enforced here.
func NormalizePhone(raw string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, raw)

	switch {
	case tenDigits.MatchString(cleaned):
		cleaned = "+91" + cleaned
	case twelveDigits.MatchString(cleaned):
		cleaned = "+" + cleaned
	}

	if !indianMobile.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}
