package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title the input layer accepts, in characters.
const MaxTitleLength = 100

// NormalizeTitle repairs invalid UTF-8, trims surrounding whitespace and
// validates the result.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(ValidText(title))
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// ValidText replaces every byte that is not part of a valid UTF-8 sequence
// with U+FFFD, the same substitution encoding/json makes when persisting.
func ValidText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}
