package pathutil

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSlug is returned when the slug in the URL path is invalid.
var ErrInvalidSlug = errors.New("invalid slug")

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,199}$`)

// ExtractSlug removes prefix from path and validates the remaining segment
// as a post slug.
//
//	slug, err := ExtractSlug("/posts/hello-world", "/posts/")
//	// "hello-world", nil
func ExtractSlug(path, prefix string) (string, error) {
	slug := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/")
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return slug, nil
}
