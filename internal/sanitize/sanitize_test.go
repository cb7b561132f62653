package sanitize

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestCell(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Jo", "Jo"},
		{"surrounding whitespace", "  Jo  ", "Jo"},
		{"nul removed", "J\x00o", "Jo"},
		{"crlf become spaces", "line1\r\nline2", "line1 line2"},
		{"tab collapsed", "a\t\tb", "a b"},
		{"other controls", "a\x07b\x1bc", "a b c"},
		{"c1 control", "a\u0085b", "a b"},
		{"equals", "=cmd", "'=cmd"},
		{"plus", "+1", "'+1"},
		{"minus", "-2", "'-2"},
		{"at", "@SUM(A1)", "'@SUM(A1)"},
		{"trigger after stripping", "\n  =HYPERLINK()", "'=HYPERLINK()"},
		{"trigger not leading", "a=b", "a=b"},
		{"apostrophe kept", "'quoted", "'quoted"},
		{"empty", "", ""},
		{"only controls", "\x00\r\n\t", ""},
		{"non ascii", "  José Núñez ", "José Núñez"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Cell(tc.in))
		})
	}
}

var propertyInputs = []string{
	"",
	"=1+1",
	"\x00=\x00",
	" \t\r\n-10 ",
	"@@@",
	"plain text",
	"a\x01b\x02c\x7fd",
	"tab\there",
	" separator ",
	"'=already",
	"multi\n\nline\r\rtext",
	"ünïcödé + émoji 🚀",
}

func TestCell_NoControlCharacters(t *testing.T) {
	for _, in := range propertyInputs {
		out := Cell(in)
		for _, r := range out {
			assert.False(t, unicode.Is(unicode.Cc, r), "control %U left in %q", r, out)
		}
		assert.NotContains(t, out, "\x00")
		assert.NotContains(t, out, "\r")
		assert.NotContains(t, out, "\n")
	}
}

func TestCell_Idempotent(t *testing.T) {
	for _, in := range propertyInputs {
		once := Cell(in)
		assert.Equal(t, once, Cell(once), "input %q", in)
	}
}

func TestCell_LeadingCharacter(t *testing.T) {
	for _, in := range propertyInputs {
		stripped := StripControls(in)
		out := Cell(in)
		if stripped != "" && strings.ContainsAny(stripped[:1], formulaTriggers) {
			assert.Equal(t, "'"+stripped, out)
			continue
		}
		assert.Equal(t, stripped, out)
	}
}

func TestNeutralizeFormula(t *testing.T) {
	assert.Equal(t, "", NeutralizeFormula(""))
	assert.Equal(t, "'=x", NeutralizeFormula("=x"))
	assert.Equal(t, " =x", NeutralizeFormula(" =x"))
}
