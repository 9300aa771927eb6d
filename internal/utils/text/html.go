// Package text provides pure helpers that turn post markup into plain text
// for teasers, link labels and CLI output.
package text

import (
	"regexp"
	"strings"
)

// tagPattern matches a single markup tag, including closing and self-closing tags.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes every markup tag from html and returns the remaining text.
// Entities are left untouched; callers that need decoded text must decode it
// themselves.
//
// Examples:
//
//	StripHTML("<p>Hi <b>there</b></p>") // "Hi there"
//	StripHTML("")                       // ""
func StripHTML(html string) string {
	if html == "" {
		return ""
	}
	return tagPattern.ReplaceAllString(html, "")
}

// Summary builds a plain-text teaser from markup: tags are stripped, the result
// is trimmed and then limited to maxWords words.
func Summary(html string, maxWords int) string {
	return LimitWords(strings.TrimSpace(StripHTML(html)), maxWords)
}
