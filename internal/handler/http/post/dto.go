// Package post provides the HTTP endpoints of the post listing: the paged
// JSON listing, single post lookup and the websocket live view.
package post

import (
	"time"

	"postpulse/internal/common/pagination"
	"postpulse/internal/domain/entity"
	"postpulse/internal/handler/http/respond"
	"postpulse/internal/usecase/listing"
	"postpulse/internal/utils/text"
)

// DisplayDateLayout formats Post.Date for cards.
const DisplayDateLayout = "January 2, 2006"

// DefaultSummaryWords is the teaser length when none is configured.
const DefaultSummaryWords = 40

// DTO is the JSON form of one post. Fields ending in _html carry raw markup
// from the content source; the client must sanitize them before rendering.
type DTO struct {
	ID            string     `json:"id" example:"cG9zdDox"`
	Title         string     `json:"title" example:"Hello world"`
	ExcerptHTML   string     `json:"excerpt_html" example:"<p>Short intro</p>"`
	ContentHTML   string     `json:"content_html" example:"<p>Full text</p>"`
	BodyHTML      string     `json:"body_html" example:"<p>Short intro</p>"`
	Summary       string     `json:"summary" example:"Short intro"`
	Date          *time.Time `json:"date,omitempty" example:"2024-03-01T10:00:00Z"`
	DisplayDate   string     `json:"display_date,omitempty" example:"March 1, 2024"`
	Slug          string     `json:"slug" example:"hello-world"`
	Permalink     string     `json:"permalink" example:"/hello-world"`
	Source        *SourceDTO `json:"source,omitempty"`
	Category      string     `json:"category,omitempty" example:"News"`
	FeaturedImage *ImageDTO  `json:"featured_image,omitempty"`
}

// SourceDTO is the attribution of syndicated content.
type SourceDTO struct {
	Name   string `json:"name" example:"Example Times"`
	URL    string `json:"url,omitempty" example:"https://example.com/story"`
	IsLink bool   `json:"is_link"`
}

// ImageDTO is a featured image reference.
type ImageDTO struct {
	URL     string `json:"url" example:"https://example.com/image.jpg"`
	AltText string `json:"alt_text" example:"A cat"`
}

// ListingDTO is one page of the listing as served by GET /posts and pushed
// over the live view.
type ListingDTO struct {
	Status       string              `json:"status" example:"ready" enums:"loading,error,ready"`
	Posts        []DTO               `json:"posts"`
	Pagination   pagination.Metadata `json:"pagination"`
	PageNumbers  []int               `json:"page_numbers"`
	Error        string              `json:"error,omitempty"`
	RefreshError string              `json:"refresh_error,omitempty"`
	Fetching     bool                `json:"fetching"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`
}

// FromPost converts p. summaryWords bounds the plain-text summary.
func FromPost(p entity.Post, summaryWords int) DTO {
	d := DTO{
		ID:          p.ID,
		Title:       p.Title,
		ExcerptHTML: p.Excerpt.String(),
		ContentHTML: p.Content.String(),
		BodyHTML:    p.Body().String(),
		Summary:     text.Summary(p.Body().String(), summaryWords),
		Slug:        p.Slug,
		Permalink:   p.Permalink(),
		Category:    p.Category,
	}
	if !p.Date.IsZero() {
		date := p.Date
		d.Date = &date
		d.DisplayDate = p.Date.Format(DisplayDateLayout)
	}
	if p.Source != nil {
		d.Source = &SourceDTO{Name: p.Source.Name, URL: p.Source.URL, IsLink: p.Source.IsLink()}
	}
	if p.FeaturedImage != nil {
		d.FeaturedImage = &ImageDTO{URL: p.FeaturedImage.URL, AltText: p.FeaturedImage.AltText}
	}
	return d
}

// FromState converts a view state into the listing payload.
func FromState(st listing.State, summaryWords int) ListingDTO {
	posts := make([]DTO, 0, len(st.Posts))
	for _, p := range st.Posts {
		posts = append(posts, FromPost(p, summaryWords))
	}
	out := ListingDTO{
		Status:       string(st.Status),
		Posts:        posts,
		Pagination:   st.Window().Metadata(),
		PageNumbers:  st.PageNumbers(),
		Error:        respond.SanitizeMessage(st.ErrorMessage),
		RefreshError: respond.SanitizeMessage(st.RefreshError),
		Fetching:     st.Fetching,
	}
	if !st.UpdatedAt.IsZero() {
		updated := st.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}
