package query

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"postpulse/internal/domain/entity"
	"postpulse/internal/handler/http/respond"
	"postpulse/internal/observability/metrics"
	"postpulse/internal/usecase/fetch"
)

// Config controls freshness and fetch bounds.
type Config struct {
	// StaleTime is how long a successful result counts as fresh.
	StaleTime time.Duration
	// FetchTimeout bounds one fetch. Fetches run on a detached context so
	// one caller going away does not cancel a fetch others are waiting on.
	FetchTimeout time.Duration
}

// DefaultConfig returns a 60s stale time and 30s fetch timeout.
func DefaultConfig() Config {
	return Config{
		StaleTime:    60 * time.Second,
		FetchTimeout: 30 * time.Second,
	}
}

type subscription struct {
	fn     func(Snapshot)
	active atomic.Bool
}

// Cache is a single-entry stale-while-revalidate cache over a PostFetcher.
type Cache struct {
	key     string
	fetcher fetch.PostFetcher
	config  Config
	logger  *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	snap     Snapshot
	inFlight bool
	subs     map[uint64]*subscription
	nextID   uint64

	// notifyMu delivers snapshots to listeners one resolution at a time.
	notifyMu sync.Mutex
}

// NewCache creates a cache for PostsKey backed by fetcher.
func NewCache(fetcher fetch.PostFetcher, config Config, logger *slog.Logger) *Cache {
	def := DefaultConfig()
	if config.StaleTime < 0 {
		config.StaleTime = 0
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = def.FetchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		key:     PostsKey,
		fetcher: fetcher,
		config:  config,
		logger:  logger,
		now:     time.Now,
		snap:    Snapshot{Key: PostsKey, Status: StatusLoading},
		subs:    make(map[uint64]*subscription),
	}
}

// Key returns the cache key.
func (c *Cache) Key() string {
	return c.key
}

// Snapshot returns the current entry without triggering any fetch.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// IsStale reports whether the entry has no data or its data is older than StaleTime.
func (c *Cache) IsStale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isStaleLocked()
}

func (c *Cache) isStaleLocked() bool {
	if !c.snap.HasData() {
		return true
	}
	return c.now().Sub(c.snap.FetchedAt) >= c.config.StaleTime
}

// Get returns the current snapshot and starts a background refresh when the
// entry is empty or stale. It never blocks on the network.
func (c *Cache) Get(ctx context.Context) Snapshot {
	c.mu.Lock()
	snap := c.snap
	stale := c.isStaleLocked()
	c.mu.Unlock()

	if stale {
		if snap.HasData() {
			metrics.RecordCacheStaleRead(c.key)
		}
		c.Refresh(ctx)
	}
	return snap
}

// Fetch blocks until the in-flight fetch (or a new one) resolves and returns
// the resulting snapshot. If ctx ends first, the current snapshot and the
// context error are returned; the fetch keeps running for other waiters.
func (c *Cache) Fetch(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	c.inFlight = true
	c.mu.Unlock()

	ch := c.group.DoChan(c.key, c.run)
	select {
	case res := <-ch:
		return res.Val.(Snapshot), res.Err
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// Refresh starts a background refetch and returns true, or returns false
// without doing anything when a fetch for the key is already in flight.
func (c *Cache) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		metrics.RecordCacheRefreshSkipped(c.key)
		c.logger.DebugContext(ctx, "refresh skipped, fetch in flight", slog.String("key", c.key))
		return false
	}
	c.inFlight = true
	c.mu.Unlock()

	c.group.DoChan(c.key, c.run)
	return true
}

// run performs one fetch and publishes its result. Only singleflight calls it.
func (c *Cache) run() (interface{}, error) {
	c.mu.Lock()
	c.inFlight = true
	c.snap.Fetching = true
	c.snap.Seq++
	started := c.snap
	c.mu.Unlock()
	c.notify(started)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.FetchTimeout)
	defer cancel()
	posts, err := c.fetcher.FetchPosts(ctx)

	c.mu.Lock()
	now := c.now()
	// Forget with the flag cleared so a Refresh issued from a listener below
	// starts a new call instead of joining this finishing one.
	c.inFlight = false
	c.group.Forget(c.key)
	c.snap.Fetching = false
	c.snap.Seq++
	c.snap.UpdatedAt = now
	if err != nil {
		c.snap.Status = StatusError
		c.snap.Err = err
	} else {
		if posts == nil {
			posts = []entity.Post{}
		}
		c.snap.Posts = posts
		c.snap.Version++
		c.snap.Status = StatusReady
		c.snap.Err = nil
		c.snap.FetchedAt = now
	}
	resolved := c.snap
	c.mu.Unlock()

	metrics.RecordCacheRefresh(c.key, err == nil)
	if err != nil {
		c.logger.Warn("cache fetch failed",
			slog.String("key", c.key),
			slog.String("error_kind", fetch.KindOf(err)),
			slog.String("error", respond.SanitizeError(err)),
			slog.Bool("has_data", resolved.HasData()))
	} else {
		c.logger.Debug("cache updated",
			slog.String("key", c.key),
			slog.Uint64("version", resolved.Version),
			slog.Int("posts", len(resolved.Posts)))
	}

	c.notify(resolved)
	return resolved, err
}

// Subscribe registers fn for every snapshot change and returns a function
// that removes it. Listeners run on the fetching goroutine, in resolution
// order; they must not call Fetch.
func (c *Cache) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = sub
	n := len(c.subs)
	c.mu.Unlock()
	metrics.SetCacheSubscribers(c.key, n)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			c.mu.Lock()
			delete(c.subs, id)
			n := len(c.subs)
			c.mu.Unlock()
			metrics.SetCacheSubscribers(c.key, n)
		})
	}
}

func (c *Cache) notify(s Snapshot) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	subs := make([]*subscription, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(s)
		}
	}
}
