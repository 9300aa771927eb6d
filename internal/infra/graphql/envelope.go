package graphql

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"postpulse/internal/domain/entity"
	"postpulse/internal/usecase/fetch"
)

// ErrMalformedEnvelope is wrapped when a response has neither data nor errors.
var ErrMalformedEnvelope = errors.New("response has neither data nor errors")

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type gqlError struct {
	Message string `json:"message"`
}

type postsData struct {
	Posts *postConnection `json:"posts"`
}

// Nodes is a pointer so a null or missing list is distinguishable from [].
type postConnection struct {
	Nodes *[]postNode `json:"nodes"`
}

type postNode struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Date      string `json:"date"`
	Slug      string `json:"slug"`
	ACFFields *struct {
		SourceName string `json:"sourceName"`
		SourceURL  string `json:"sourceUrl"`
	} `json:"acffields"`
	Categories *struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"categories"`
	FeaturedImage *struct {
		Node *struct {
			SourceURL string `json:"sourceUrl"`
			AltText   string `json:"altText"`
		} `json:"node"`
	} `json:"featuredImage"`
}

// decodeEnvelope turns a response body into the post collection or one of
// the fetch error types.
func decodeEnvelope(body []byte) ([]entity.Post, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &fetch.TransportError{Op: "decode", Err: err}
	}

	if len(env.Errors) > 0 {
		messages := make([]string, len(env.Errors))
		for i, e := range env.Errors {
			messages[i] = e.Message
		}
		return nil, fetch.NewQueryError(messages)
	}

	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil, &fetch.TransportError{Op: "decode", Err: ErrMalformedEnvelope}
	}

	var data postsData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &fetch.TransportError{Op: "decode", Err: err}
	}
	if data.Posts == nil {
		return nil, &fetch.EmptyResultError{Path: "data.posts"}
	}
	if data.Posts.Nodes == nil {
		return nil, &fetch.EmptyResultError{Path: "data.posts.nodes"}
	}

	nodes := *data.Posts.Nodes
	posts := make([]entity.Post, len(nodes))
	for i, n := range nodes {
		posts[i] = n.toPost()
	}

	if err := entity.ValidateCollection(posts); err != nil {
		return nil, &fetch.TransportError{Op: "validate", Err: err}
	}
	return posts, nil
}

func (n postNode) toPost() entity.Post {
	p := entity.Post{
		ID:      n.ID,
		Title:   n.Title,
		Excerpt: entity.HTML(n.Excerpt),
		Content: entity.HTML(n.Content),
		Date:    parseDate(n.Date),
		Slug:    n.Slug,
	}
	if n.ACFFields != nil {
		p.Source = entity.NewAttribution(n.ACFFields.SourceName, n.ACFFields.SourceURL)
	}
	if n.Categories != nil && len(n.Categories.Nodes) > 0 {
		p.Category = n.Categories.Nodes[0].Name
	}
	if n.FeaturedImage != nil && n.FeaturedImage.Node != nil {
		p.FeaturedImage = entity.NewImage(n.FeaturedImage.Node.SourceURL, n.FeaturedImage.Node.AltText)
	}
	return p
}

// dateLayouts are tried in order. WPGraphQL's "date" is site-local time
// without an offset; it is read as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseDate returns the zero time when s matches no layout.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
