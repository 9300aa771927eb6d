package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength defines the maximum allowed length for configured URLs.
const maxURLLength = 2048

// ValidateCollection checks the invariants of one fetched post collection:
// every post has a non-empty ID, no ID appears twice and no non-empty slug
// appears twice.
func ValidateCollection(posts []Post) error {
	seen := make(map[string]int, len(posts))
	slugs := make(map[string]int, len(posts))
	for i, p := range posts {
		if p.ID == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("posts[%d].id", i),
				Message: "id is required",
			}
		}
		if first, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateID, p.ID, first, i)
		}
		seen[p.ID] = i
		if p.Slug == "" {
			continue
		}
		if first, ok := slugs[p.Slug]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateSlug, p.Slug, first, i)
		}
		slugs[p.Slug] = i
	}
	return nil
}

// ValidateEndpoint validates the format of a content source URL.
// It checks that the URL is well-formed, uses HTTP/HTTPS scheme, and has a host.
// Returns a ValidationError if the URL is invalid or empty.
func ValidateEndpoint(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "endpoint", Message: "endpoint is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "endpoint",
			Message: fmt.Sprintf("endpoint must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "endpoint", Message: fmt.Sprintf("invalid URL: %v", err)}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "endpoint", Message: "endpoint must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "endpoint", Message: "endpoint must have a valid host"}
	}

	return nil
}
