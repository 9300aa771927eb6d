// Package entity defines the core domain entities for the post listing.
// It contains the Post record as delivered by the content source, its optional
// attribution and media parts, and the validation rules for a fetched collection.
package entity

import (
	"strings"
	"time"
)

// HTML is a markup-bearing string delivered by the content source.
// Values are passed through verbatim; the render layer owns sanitization.
type HTML string

// String returns the raw markup.
func (h HTML) String() string {
	return string(h)
}

// IsBlank reports whether the markup is empty or whitespace only.
func (h HTML) IsBlank() bool {
	return strings.TrimSpace(string(h)) == ""
}

// Post represents one content item returned by the content source.
// Field order mirrors the remote record; collection order is display order.
type Post struct {
	ID            string
	Title         string
	Excerpt       HTML
	Content       HTML
	Date          time.Time
	Slug          string
	Source        *Attribution
	Category      string
	FeaturedImage *Image
}

// Attribution names the original publisher of syndicated content.
type Attribution struct {
	Name string
	URL  string
}

// IsLink reports whether the attribution should render as a link.
func (a Attribution) IsLink() bool {
	return a.URL != ""
}

// Image is a featured image reference.
type Image struct {
	URL     string
	AltText string
}

// Body returns the markup to display for the post: the excerpt when present,
// otherwise the full content.
func (p Post) Body() HTML {
	if !p.Excerpt.IsBlank() {
		return p.Excerpt
	}
	return p.Content
}

// Permalink returns the detail-page reference for the post.
// The target page is not resolved or checked.
func (p Post) Permalink() string {
	return "/" + p.Slug
}

// NewAttribution returns an Attribution for the given name and URL, or nil
// when the name is empty so the attribution is omitted.
func NewAttribution(name, url string) *Attribution {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &Attribution{Name: name, URL: strings.TrimSpace(url)}
}

// NewImage returns an Image for the given URL, or nil when the URL is empty.
func NewImage(url, altText string) *Image {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &Image{URL: url, AltText: altText}
}
