// Package pathutil normalizes request paths for metric labels and extracts
// path parameters.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns are evaluated in order; the first match wins.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/posts/live$`), Template: "/posts/live"},
	{Pattern: regexp.MustCompile(`^/posts/[^/]+$`), Template: "/posts/:slug"},
	{Pattern: regexp.MustCompile(`^/swagger/.*$`), Template: "/swagger/*"},
}

// NormalizePath maps dynamic URL paths to route templates so metric labels
// stay bounded.
//
//	NormalizePath("/posts/hello-world")  // "/posts/:slug"
//	NormalizePath("/posts/live")         // "/posts/live"
//	NormalizePath("/posts?page=2")       // "/posts"
//	NormalizePath("/swagger/index.html") // "/swagger/*"
//	NormalizePath("/unknown/path/123")   // "/unknown/path/123"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
