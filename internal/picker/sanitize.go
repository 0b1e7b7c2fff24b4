package picker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches ANSI escape sequences:
//   - CSI sequences: ESC [ ... final_byte  (covers SGR like \x1b[31m)
//   - OSC sequences: ESC ] ... (ST | BEL)
//   - Charset sequences: ESC ( B, ESC ) B, etc.
//   - Other two-byte escapes: ESC followed by a single byte in [#()*+\-./]
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#()*+\-./][A-Za-z0-9]` +
	`)`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// ValidateUTF8 replaces invalid UTF-8 byte sequences with the Unicode
// replacement character (U+FFFD).
func ValidateUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			i++
		} else {
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}

// SanitizeLabel makes a catalog string safe to draw: escape sequences are
// removed, invalid UTF-8 is replaced and remaining control characters become
// spaces. Labels are sanitized before ranking so that match indices refer to
// the text that is actually drawn.
func SanitizeLabel(s string) string {
	s = ValidateUTF8(StripANSI(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// MiddleTruncateIndices truncates s in the middle with an ellipsis character
// if its display width exceeds maxWidth, and maps the rune offsets in indices
// onto the truncated string. Offsets that fall in the elided middle are
// dropped. CJK characters and emoji count as two columns.
//
// If maxWidth < 3 the string is simply truncated from the right.
func MiddleTruncateIndices(s string, indices []int, maxWidth int) (string, []int) {
	if maxWidth <= 0 {
		return "", nil
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s, indices
	}

	const ellipsis = "…"
	const ellipsisWidth = 1

	if maxWidth < 3 {
		head := truncateLeft(s, maxWidth)
		return head, keepBelow(indices, utf8.RuneCountInString(head))
	}

	remaining := maxWidth - ellipsisWidth
	head := truncateLeft(s, (remaining+1)/2)
	tail := truncateRight(s, remaining/2)

	headRunes := utf8.RuneCountInString(head)
	tailStart := utf8.RuneCountInString(s) - utf8.RuneCountInString(tail)

	var mapped []int
	for _, i := range indices {
		switch {
		case i < headRunes:
			mapped = append(mapped, i)
		case i >= tailStart:
			// +1 for the ellipsis rune.
			mapped = append(mapped, headRunes+1+i-tailStart)
		}
	}
	return head + ellipsis + tail, mapped
}

func keepBelow(indices []int, n int) []int {
	var out []int
	for _, i := range indices {
		if i < n {
			out = append(out, i)
		}
	}
	return out
}

// truncateLeft returns the longest prefix of s whose display width does not
// exceed maxWidth.
func truncateLeft(s string, maxWidth int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return s[:i]
		}
		w += rw
	}
	return s
}

// truncateRight returns the longest suffix of s whose display width does not
// exceed maxWidth.
func truncateRight(s string, maxWidth int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > maxWidth {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}

// Fits reports whether s fits in width display columns.
func Fits(s string, width int) bool {
	return runewidth.StringWidth(s) <= width
}
