package listing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"postpulse/internal/common/pagination"
	"postpulse/internal/observability/metrics"
	"postpulse/internal/usecase/query"
)

// Navigation actions, used as log and metric labels.
const (
	ActionGoTo     = "goto"
	ActionNext     = "next"
	ActionPrevious = "previous"
)

// Options configures a View.
type Options struct {
	// PageSize defaults to pagination.DefaultConfig().PageSize.
	PageSize int
	// RefreshInterval enables a timed refetch while mounted. Zero disables it.
	RefreshInterval time.Duration
	// RefreshSchedule is a cron expression or descriptor; it wins over RefreshInterval.
	RefreshSchedule string
	// Surface labels the active view gauge ("http", "websocket", "cli").
	Surface string
	Logger  *slog.Logger
	// OnChange receives every new State, in order. It must not call back into the View.
	OnChange func(State)
}

// View is the pagination view-model for one mounted surface.
type View struct {
	id        string
	cache     *query.Cache
	opts      Options
	logger    *slog.Logger
	refresher *query.Refresher

	// emitMu orders OnChange deliveries; it is taken before mu.
	emitMu sync.Mutex

	mu          sync.Mutex
	snap        query.Snapshot
	version     uint64
	window      pagination.Window
	mounted     bool
	closed      bool
	unsubscribe func()

	// changed is signalled after every applied snapshot.
	changed chan struct{}
}

// NewView creates an unmounted view over cache. It fails only when the
// refresh schedule does not parse.
func NewView(cache *query.Cache, opts Options) (*View, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = pagination.DefaultConfig().PageSize
	}
	if opts.Surface == "" {
		opts.Surface = "unknown"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	v := &View{
		id:      uuid.New().String(),
		cache:   cache,
		opts:    opts,
		window:  pagination.NewWindow(0, opts.PageSize, 1),
		changed: make(chan struct{}, 1),
	}
	v.logger = opts.Logger.With(slog.String("view_id", v.id), slog.String("surface", opts.Surface))
	v.snap = query.Snapshot{Key: cache.Key(), Status: query.StatusLoading}

	schedule := opts.RefreshSchedule
	if schedule == "" && opts.RefreshInterval > 0 {
		schedule = query.IntervalSchedule(opts.RefreshInterval)
	}
	if schedule != "" {
		r, err := query.NewRefresher(cache, schedule, v.logger)
		if err != nil {
			return nil, err
		}
		v.refresher = r
	}
	return v, nil
}

// ID returns the view's unique id.
func (v *View) ID() string { return v.id }

// Mount subscribes to the cache, applies its current entry and starts a
// fetch when the entry is empty or stale. It returns the initial State.
// Mounting twice or after Close is a no-op.
func (v *View) Mount(ctx context.Context) State {
	v.mu.Lock()
	if v.mounted || v.closed {
		st := v.stateLocked()
		v.mu.Unlock()
		return st
	}
	v.mounted = true
	v.mu.Unlock()

	unsubscribe := v.cache.Subscribe(v.apply)
	v.mu.Lock()
	v.unsubscribe = unsubscribe
	v.mu.Unlock()

	metrics.ViewMounted(v.opts.Surface)
	v.apply(v.cache.Snapshot())
	v.cache.Get(ctx)
	if v.refresher != nil {
		v.refresher.Start()
	}
	v.logger.DebugContext(ctx, "view mounted")
	return v.State()
}

// Close stops the refresher and unsubscribes. Snapshots resolving after
// Close are discarded. Safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	mounted := v.mounted
	unsubscribe := v.unsubscribe
	v.mu.Unlock()

	if v.refresher != nil {
		v.refresher.Stop()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	if mounted {
		metrics.ViewClosed(v.opts.Surface)
	}
	v.logger.Debug("view closed")
}

// State returns the current State.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

// GoTo moves to page n, clamped to [1, max(1, totalPages)].
func (v *View) GoTo(n int) State {
	return v.navigate(ActionGoTo, func(int) int { return n })
}

// Next moves one page forward; it is a no-op on the last page.
func (v *View) Next() State {
	return v.navigate(ActionNext, func(cur int) int { return cur + 1 })
}

// Previous moves one page back; it is a no-op on the first page.
func (v *View) Previous() State {
	return v.navigate(ActionPrevious, func(cur int) int { return cur - 1 })
}

func (v *View) navigate(action string, target func(current int) int) State {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	if v.closed {
		st := v.stateLocked()
		v.mu.Unlock()
		return st
	}
	requested := target(v.window.CurrentPage)
	v.window = v.window.GoTo(requested)
	w := v.window
	st := v.stateLocked()
	v.mu.Unlock()

	pagination.RecordNavigation(action, w.CurrentPage != requested)
	pagination.LogNavigation(v.logger, v.id, action, requested, w)
	v.emit(st)
	return st
}

// apply folds a cache snapshot into the view. Older snapshots and anything
// arriving after Close are dropped.
func (v *View) apply(snap query.Snapshot) {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	if v.closed || snap.Seq < v.snap.Seq {
		v.mu.Unlock()
		return
	}
	page := v.window.CurrentPage
	if snap.Version != v.version {
		v.version = snap.Version
		page = 1
	}
	v.snap = snap
	v.window = pagination.NewWindow(len(snap.Posts), v.opts.PageSize, page)
	st := v.stateLocked()
	v.mu.Unlock()

	select {
	case v.changed <- struct{}{}:
	default:
	}
	v.emit(st)
}

// Await blocks until the view has data, or until a fetch resolving at or
// after since has failed, or until ctx ends. It returns the latest State in
// every case and ctx.Err() in the last.
func (v *View) Await(ctx context.Context, since time.Time) (State, error) {
	for {
		st := v.State()
		if st.Status == query.StatusReady {
			return st, nil
		}
		if st.Status == query.StatusError && !st.Fetching && !st.UpdatedAt.Before(since) {
			return st, nil
		}
		select {
		case <-v.changed:
		case <-ctx.Done():
			return v.State(), ctx.Err()
		}
	}
}

func (v *View) emit(st State) {
	if v.opts.OnChange != nil {
		v.opts.OnChange(st)
	}
}

func (v *View) stateLocked() State {
	return deriveState(v.snap, v.window)
}
