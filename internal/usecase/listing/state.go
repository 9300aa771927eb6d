// Package listing is the pagination view-model over the cached post collection.
//
// One View exists per mounted surface (an HTTP request, a websocket
// connection, a CLI run). It owns the current page and derives the visible
// slice from the cache's latest snapshot.
package listing

import (
	"time"

	"postpulse/internal/common/pagination"
	"postpulse/internal/domain/entity"
	"postpulse/internal/usecase/query"
)

// State is what a render layer reads from a View.
type State struct {
	Posts       []entity.Post // visible page; shared, do not mutate
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalPosts  int

	// Status is StatusError only when no collection has ever loaded.
	Status       query.Status
	ErrorMessage string
	// RefreshError is set when a refetch failed while older posts are shown.
	RefreshError string
	Fetching     bool
	UpdatedAt    time.Time
}

// Window returns the page window the state was derived from.
func (s State) Window() pagination.Window {
	return pagination.Window{
		CurrentPage: s.CurrentPage,
		PageSize:    s.PageSize,
		TotalPages:  s.TotalPages,
		Total:       s.TotalPosts,
	}
}

// HasNext reports whether Next would move.
func (s State) HasNext() bool { return s.Window().HasNext() }

// HasPrevious reports whether Previous would move.
func (s State) HasPrevious() bool { return s.Window().HasPrevious() }

// PageNumbers lists the selectable pages.
func (s State) PageNumbers() []int { return s.Window().PageNumbers() }

// IsEmpty reports a loaded collection with no posts.
func (s State) IsEmpty() bool {
	return s.Status == query.StatusReady && s.TotalPosts == 0
}

func deriveState(snap query.Snapshot, w pagination.Window) State {
	st := State{
		Posts:       pagination.Slice(snap.Posts, w),
		CurrentPage: w.CurrentPage,
		PageSize:    w.PageSize,
		TotalPages:  w.TotalPages,
		TotalPosts:  w.Total,
		Status:      snap.Status,
		Fetching:    snap.Fetching,
		UpdatedAt:   snap.UpdatedAt,
	}
	switch {
	case snap.HasData():
		st.Status = query.StatusReady
		if snap.Err != nil {
			st.RefreshError = snap.Err.Error()
		}
	case snap.Status == query.StatusError && snap.Err != nil:
		st.ErrorMessage = snap.Err.Error()
	}
	return st
}
