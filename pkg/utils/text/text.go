// ABOUTME: Text utilities for measuring, truncating and whitespace-normalizing strings
// ABOUTME: Lengths are counted in characters (runes), never bytes

package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRun matches ASCII whitespace plus unicode space separators such as NBSP
var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]+`)

// Length returns the number of characters in s
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate cuts s to at most max characters without splitting a multi-byte rune
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// CollapseWhitespace reduces each whitespace run to a single separator and trims the result.
// Runs without a newline become one space, runs with one newline become "\n",
// and runs with more become a single blank line. The output is a fixed point.
func CollapseWhitespace(s string) string {
	s = whitespaceRun.ReplaceAllStringFunc(s, func(run string) string {
		switch strings.Count(run, "\n") {
		case 0:
			return " "
		case 1:
			return "\n"
		default:
			return "\n\n"
		}
	})
	return strings.TrimSpace(s)
}

// FirstNonEmpty returns the first value that is not blank after trimming
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
