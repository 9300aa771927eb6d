package http

import (
	"context"
	"log/slog"
	"time"
)

// StartRateLimitCleanup drops idle clients from limiter every interval until
// ctx is cancelled. It blocks; run it in its own goroutine.
func StartRateLimitCleanup(ctx context.Context, limiter *RateLimiter, interval, idle time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("rate limit cleanup started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			removed := limiter.CleanupExpired(idle)
			logger.Debug("rate limit cleanup completed",
				slog.Int("removed", removed),
				slog.Int("remaining", limiter.Len()))
		}
	}
}
