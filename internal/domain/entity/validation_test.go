package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCollection(t *testing.T) {
	tests := []struct {
		name    string
		posts   []Post
		wantErr error
	}{
		{
			name:  "empty collection is valid",
			posts: nil,
		},
		{
			name:  "unique ids",
			posts: []Post{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		},
		{
			name:    "duplicate id",
			posts:   []Post{{ID: "a"}, {ID: "b"}, {ID: "a"}},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "duplicate slug",
			posts:   []Post{{ID: "a", Slug: "hello"}, {ID: "b", Slug: "hello"}},
			wantErr: ErrDuplicateSlug,
		},
		{
			name:  "empty slugs are not compared",
			posts: []Post{{ID: "a"}, {ID: "b"}},
		},
		{
			name:    "missing id",
			posts:   []Post{{ID: "a"}, {ID: ""}},
			wantErr: ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCollection(tt.posts)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateCollection() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateCollection() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name: "valid https URL",
			url:  "https://cms.example.com/graphql",
		},
		{
			name: "valid http URL with port",
			url:  "http://localhost:8081/graphql",
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "invalid scheme - ftp",
			url:     "ftp://example.com/graphql",
			wantErr: true,
		},
		{
			name:    "missing host",
			url:     "https:///graphql",
			wantErr: true,
		},
		{
			name:    "too long",
			url:     "https://example.com/" + strings.Repeat("a", maxURLLength),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEndpoint(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}
