package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher periodically calls Cache.Refresh on a cron schedule.
// It is the explicit handle for a view's timed refetch: Stop cancels it.
type Refresher struct {
	cache    *Cache
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
	stopOnce sync.Once
}

// IntervalSchedule converts a refresh interval into a cron descriptor.
func IntervalSchedule(d time.Duration) string {
	return "@every " + d.String()
}

// NewRefresher creates a stopped Refresher for schedule, which may be a
// five-field cron expression or a descriptor such as "@every 1m".
func NewRefresher(cache *Cache, schedule string, logger *slog.Logger) (*Refresher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))

	r := &Refresher{cache: cache, cron: c, schedule: schedule, logger: logger}
	if _, err := c.AddFunc(schedule, r.tick); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins firing on the schedule.
func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Debug("refresher started", slog.String("schedule", r.schedule))
}

// Stop halts the schedule. No tick starts after Stop returns; a tick already
// running only issues a non-blocking Refresh. Safe to call more than once.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		<-r.cron.Stop().Done()
		r.logger.Debug("refresher stopped", slog.String("schedule", r.schedule))
	})
}

func (r *Refresher) tick() {
	r.cache.Refresh(context.Background())
}
