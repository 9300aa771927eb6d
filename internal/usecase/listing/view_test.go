package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
		posts[i] = entity.Post{ID: fmt.Sprintf("P%d", i+1), Title: fmt.Sprintf("Post %d", i+1)}
	}
	return posts
}

func ids(posts []entity.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func newCache(f fetch.PostFetcher) *query.Cache {
	return query.NewCache(f, query.Config{StaleTime: time.Hour, FetchTimeout: time.Second}, nil)
}

// loadedView returns a mounted view over a cache that already holds the first result.
func loadedView(t *testing.T, f fetch.PostFetcher, opts Options) (*View, *query.Cache) {
	t.Helper()
	c := newCache(f)
	_, _ = c.Fetch(context.Background())
	v, err := NewView(c, opts)
	require.NoError(t, err)
	v.Mount(context.Background())
	t.Cleanup(v.Close)
	return v, c
}

func TestView_FifteenPosts(t *testing.T) {
	v, _ := loadedView(t, sequence(result{posts: makePosts(15)}), Options{PageSize: 5})

	st := v.State()
	assert.Equal(t, query.StatusReady, st.Status)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 3, st.TotalPages)
	assert.Equal(t, 15, st.TotalPosts)
	assert.Equal(t, []string{"P1", "P2", "P3", "P4", "P5"}, ids(st.Posts))
	assert.False(t, st.HasPrevious())
	assert.True(t, st.HasNext())
	assert.Equal(t, []int{1, 2, 3}, st.PageNumbers())

	st = v.Next()
	assert.Equal(t, 2, st.CurrentPage)
	assert.Equal(t, []string{"P6", "P7", "P8", "P9", "P10"}, ids(st.Posts))

	st = v.Next()
	assert.Equal(t, []string{"P11", "P12", "P13", "P14", "P15"}, ids(st.Posts))
	assert.False(t, st.HasNext())

	st = v.Next()
	assert.Equal(t, 3, st.CurrentPage, "next on last page is a no-op")

	st = v.GoTo(1)
	assert.Equal(t, 1, st.CurrentPage)
	st = v.Previous()
	assert.Equal(t, 1, st.CurrentPage, "previous on first page is a no-op")
}

func TestView_GoToClamps(t *testing.T) {
	v, _ := loadedView(t, sequence(result{posts: makePosts(12)}), Options{PageSize: 5})

	tests := []struct {
		name string
		page int
		want int
	}{
		{"zero", 0, 1},
		{"negative", -4, 1},
		{"inside", 2, 2},
		{"last", 3, 3},
		{"past end", 99, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.GoTo(tt.page).CurrentPage)
		})
	}

	assert.Equal(t, []string{"P11", "P12"}, ids(v.GoTo(3).Posts))
}

func TestView_FirstLoadError(t *testing.T) {
	qe := fetch.NewQueryError([]string{"Internal error"})
	v, _ := loadedView(t, sequence(result{err: qe}), Options{})

	st := v.State()
	assert.Equal(t, query.StatusError, st.Status)
	assert.Equal(t, "Internal error", st.ErrorMessage)
	assert.Empty(t, st.RefreshError)
	assert.Empty(t, st.Posts)
	assert.Equal(t, 0, st.TotalPages)
	assert.Equal(t, 1, st.CurrentPage)
}

func TestView_EmptyCollection(t *testing.T) {
	v, _ := loadedView(t, sequence(result{posts: []entity.Post{}}), Options{})

	st := v.State()
	assert.Equal(t, query.StatusReady, st.Status)
	assert.True(t, st.IsEmpty())
	assert.Equal(t, 0, st.TotalPages)
	assert.Equal(t, 1, st.CurrentPage)
	assert.NotNil(t, st.Posts)
	assert.Empty(t, st.Posts)
	assert.Empty(t, st.PageNumbers())

	assert.Equal(t, 1, v.Next().CurrentPage)
	assert.Equal(t, 1, v.GoTo(4).CurrentPage)
}

func TestView_ResetsPageOnNewCollection(t *testing.T) {
	v, c := loadedView(t, sequence(
		result{posts: makePosts(15)},
		result{posts: makePosts(14)},
	), Options{PageSize: 5})

	require.Equal(t, 3, v.GoTo(3).CurrentPage)

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)

	st := v.State()
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 14, st.TotalPosts)
	assert.Equal(t, []string{"P1", "P2", "P3", "P4", "P5"}, ids(st.Posts))
}

func TestView_FailedRefreshKeepsPageAndData(t *testing.T) {
	v, c := loadedView(t, sequence(
		result{posts: makePosts(15)},
		result{err: &fetch.TransportError{Op: "status", StatusCode: 503, Err: errors.New("status 503")}},
	), Options{PageSize: 5})

	v.GoTo(2)
	_, err := c.Fetch(context.Background())
	require.Error(t, err)

	st := v.State()
	assert.Equal(t, query.StatusReady, st.Status)
	assert.Equal(t, 2, st.CurrentPage)
	assert.Equal(t, []string{"P6", "P7", "P8", "P9", "P10"}, ids(st.Posts))
	assert.Contains(t, st.RefreshError, "503")
	assert.Empty(t, st.ErrorMessage)
}

func TestView_MountTriggersFirstFetch(t *testing.T) {
	c := newCache(sequence(result{posts: makePosts(6)}))
	v, err := NewView(c, Options{PageSize: 5})
	require.NoError(t, err)
	defer v.Close()

	st := v.Mount(context.Background())
	assert.Contains(t, []query.Status{query.StatusLoading, query.StatusReady}, st.Status)

	require.Eventually(t, func() bool { return v.State().Status == query.StatusReady }, time.Second, time.Millisecond)
	assert.Equal(t, 2, v.State().TotalPages)
}

func TestView_OnChange(t *testing.T) {
	var mu sync.Mutex
	var pages []int
	onChange := func(st State) {
		mu.Lock()
		pages = append(pages, st.CurrentPage)
		mu.Unlock()
	}
	v, _ := loadedView(t, sequence(result{posts: makePosts(10)}), Options{PageSize: 5, OnChange: onChange})

	v.Next()
	v.Previous()

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]int{1, 2, 1}, pages); diff != "" {
		t.Errorf("OnChange pages mismatch (-want +got):\n%s", diff)
	}
}

func TestView_CloseDiscardsLaterResults(t *testing.T) {
	var calls int
	var mu sync.Mutex
	onChange := func(State) {
		mu.Lock()
		calls++
		mu.Unlock()
	}
	v, c := loadedView(t, sequence(
		result{posts: makePosts(5)},
		result{posts: makePosts(9)},
	), Options{OnChange: onChange})

	v.Close()
	v.Close()
	mu.Lock()
	before := calls
	mu.Unlock()

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)
	v.Next()

	mu.Lock()
	assert.Equal(t, before, calls)
	mu.Unlock()
	assert.Equal(t, 5, v.State().TotalPosts)
}

func TestView_MountAfterCloseIsNoop(t *testing.T) {
	c := newCache(sequence(result{posts: makePosts(1)}))
	v, err := NewView(c, Options{})
	require.NoError(t, err)

	v.Close()
	st := v.Mount(context.Background())

	assert.Equal(t, query.StatusLoading, st.Status)
}

func TestNewView_Defaults(t *testing.T) {
	c := newCache(sequence(result{}))

	v, err := NewView(c, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, v.State().PageSize)
	assert.NotEmpty(t, v.ID())
	assert.Nil(t, v.refresher)
}

func TestNewView_Schedule(t *testing.T) {
	c := newCache(sequence(result{}))

	_, err := NewView(c, Options{RefreshSchedule: "every tuesday"})
	assert.Error(t, err)

	v, err := NewView(c, Options{RefreshInterval: time.Minute})
	require.NoError(t, err)
	assert.NotNil(t, v.refresher)
	v.Close()
}

func TestState_DerivedFromSnapshotWithoutData(t *testing.T) {
	st := State{Status: query.StatusLoading, CurrentPage: 1, PageSize: 5}

	assert.False(t, st.HasNext())
	assert.False(t, st.HasPrevious())
	assert.False(t, st.IsEmpty())
}

func TestView_AwaitReady(t *testing.T) {
	gate := make(chan struct{})
	f := fetch.FetcherFunc(func(ctx context.Context) ([]entity.Post, error) {
		<-gate
		return makePosts(3), nil
	})
	c := newCache(f)
	v, err := NewView(c, Options{})
	require.NoError(t, err)
	defer v.Close()

	since := time.Now()
	v.Mount(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(gate)
	}()

	st, err := v.Await(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, query.StatusReady, st.Status)
	assert.Equal(t, 3, st.TotalPosts)
}

func TestView_AwaitFailure(t *testing.T) {
	qe := fetch.NewQueryError([]string{"Internal error"})
	c := newCache(sequence(result{err: qe}))
	_, _ = c.Fetch(context.Background())

	v, err := NewView(c, Options{})
	require.NoError(t, err)
	defer v.Close()

	since := time.Now()
	v.Mount(context.Background())
	st, err := v.Await(context.Background(), since)

	require.NoError(t, err)
	assert.Equal(t, query.StatusError, st.Status)
	assert.False(t, st.UpdatedAt.Before(since), "must wait for the refetch started by Mount")
	assert.Equal(t, "Internal error", st.ErrorMessage)
}

func TestView_AwaitDeadline(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	f := fetch.FetcherFunc(func(ctx context.Context) ([]entity.Post, error) {
		select {
		case <-gate:
		case <-ctx.Done():
		}
		return nil, &fetch.TransportError{Op: "request", Err: context.Canceled}
	})
	c := newCache(f)
	v, err := NewView(c, Options{})
	require.NoError(t, err)
	defer v.Close()

	since := time.Now()
	v.Mount(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	st, err := v.Await(ctx, since)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, query.StatusLoading, st.Status)
}
