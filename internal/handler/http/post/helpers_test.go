package post

import (
	"context"
	"fmt"
	"sync"
	"time"

	"postpulse/internal/common/pagination"
	"postpulse/internal/domain/entity"
	"postpulse/internal/usecase/fetch"
	"postpulse/internal/usecase/query"
)

type result struct {
	posts []entity.Post
	err   error
}

// sequence returns a fetcher yielding results in order; the last one repeats.
func sequence(results ...result) fetch.FetcherFunc {
	var mu sync.Mutex
	return func(ctx context.Context) ([]entity.Post, error) {
		mu.Lock()
		defer mu.Unlock()
		r := results[0]
		if len(results) > 1 {
			results = results[1:]
		}
		return r.posts, r.err
	}
}

func makePosts(n int) []entity.Post {
	posts := make([]entity.Post, n)
	for i := range posts {
		posts[i] = entity.Post{
			ID:      fmt.Sprintf("P%d", i+1),
			Title:   fmt.Sprintf("Post %d", i+1),
			Slug:    fmt.Sprintf("post-%d", i+1),
			Excerpt: entity.HTML(fmt.Sprintf("<p>Excerpt %d</p>", i+1)),
		}
	}
	return posts
}

func newCache(f fetch.PostFetcher) *query.Cache {
	return query.NewCache(f, query.Config{StaleTime: time.Hour, FetchTimeout: time.Second}, nil)
}

func loadedCache(f fetch.PostFetcher) *query.Cache {
	c := newCache(f)
	_, _ = c.Fetch(context.Background())
	return c
}

func testPagination() pagination.Config {
	return pagination.DefaultConfig()
}
