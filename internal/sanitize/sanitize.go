// Package sanitize normalizes free-text input and validates room ids and display names.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextLength is the number of characters kept by Text.
	MaxTextLength = 1000
	// MaxNameLength is the longest accepted display name, counted after trimming.
	MaxNameLength = 50
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	roomIDPattern = regexp.MustCompile(`^[a-f0-9]{6}$`)
)

// Text strips tag-like substrings, trims surrounding whitespace and caps the
// result at MaxTextLength characters.
func Text(input string) string {
	out := strings.TrimSpace(tagPattern.ReplaceAllString(input, ""))
	if utf8.RuneCountInString(out) <= MaxTextLength {
		return out
	}
	return string([]rune(out)[:MaxTextLength])
}

// IsValidRoomID reports whether id is exactly six lowercase hex digits.
func IsValidRoomID(id string) bool {
	return roomIDPattern.MatchString(id)
}

// IsValidName reports whether name is 1-50 characters long once trimmed.
func IsValidName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 1 && n <= MaxNameLength
}
