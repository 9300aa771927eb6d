// Package query holds the process-wide cache for the post collection.
//
// The cache keeps one entry under a fixed key and serves it
// stale-while-revalidate: readers always get the last snapshot immediately,
// and a stale entry triggers a background refetch. At most one fetch per key
// is in flight; callers arriving during a fetch join it.
package query

import (
	"time"

	"postpulse/internal/domain/entity"
)

// PostsKey is the cache key of the parameterless posts query.
const PostsKey = "posts"

// Status is the lifecycle state of a cache entry.
type Status string

const (
	// StatusLoading means no fetch has resolved yet.
	StatusLoading Status = "loading"
	// StatusError means the latest fetch failed. Posts from an earlier
	// success are kept.
	StatusError Status = "error"
	// StatusReady means the latest fetch succeeded.
	StatusReady Status = "ready"
)

// Snapshot is an immutable view of the cache entry.
type Snapshot struct {
	Key     string
	Seq     uint64 // increments on every change; orders snapshots delivered concurrently
	Posts   []entity.Post // shared; do not mutate
	Version uint64        // increments on each successful fetch; 0 means no data yet
	Status  Status
	Err     error // latest fetch error, nil after a success

	UpdatedAt time.Time // last resolution, success or failure
	FetchedAt time.Time // last success
	Fetching  bool
}

// HasData reports whether any fetch has ever succeeded.
func (s Snapshot) HasData() bool {
	return s.Version > 0
}
