// Package sanitize makes untrusted text safe to store in spreadsheet-consumed files.
package sanitize

import (
	"strings"
	"unicode"
)

// formulaTriggers are the leading characters Excel and Sheets evaluate as a formula.
const formulaTriggers = "=+-@"

// Cell strips control characters, normalizes whitespace and defangs formula
// prefixes, in that order. It never fails.
func Cell(s string) string {
	return NeutralizeFormula(StripControls(s))
}

// StripControls removes NUL, turns CR, LF and every other Cc rune except TAB
// into a space, then collapses whitespace runs and trims the ends.
func StripControls(s string) string {
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", "")
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\r' || r == '\n':
			return ' '
		case r != '\t' && unicode.Is(unicode.Cc, r):
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// NeutralizeFormula prefixes s with an apostrophe when it starts with a
// formula trigger.
func NeutralizeFormula(s string) string {
	if s != "" && strings.IndexByte(formulaTriggers, s[0]) >= 0 {
		return "'" + s
	}
	return s
}
