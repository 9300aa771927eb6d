package text

import "strings"

// Ellipsis is appended by LimitWords when text is truncated.
const Ellipsis = "..."

// LimitWords truncates text to at most maxWords whitespace-separated words.
// Text that already fits is returned unchanged. Truncated text is re-joined
// with single spaces and suffixed with Ellipsis.
//
// Examples:
//
//	LimitWords("a b c d", 2) // "a b..."
//	LimitWords("a b", 5)     // "a b"
//	LimitWords("a b", 0)     // "..."
func LimitWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	if maxWords < 0 {
		maxWords = 0
	}
	return strings.Join(words[:maxWords], " ") + Ellipsis
}
