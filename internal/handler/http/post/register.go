package post

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"postpulse/internal/common/pagination"
	"postpulse/internal/usecase/query"
)

// Config carries what the post endpoints need besides the cache.
type Config struct {
	Pagination      pagination.Config
	SummaryWords    int
	WaitTimeout     time.Duration
	RefreshInterval time.Duration
	RefreshSchedule string
	// CheckOrigin vets websocket handshakes; nil rejects cross-origin ones.
	CheckOrigin func(r *http.Request) bool
	// Wrap decorates the request/response endpoints (e.g. a timeout).
	// The live endpoint is never wrapped.
	Wrap func(http.Handler) http.Handler
}

// Register mounts the post endpoints on mux.
func Register(mux *http.ServeMux, cache *query.Cache, cfg Config, logger *slog.Logger) {
	wrap := cfg.Wrap
	if wrap == nil {
		wrap = func(h http.Handler) http.Handler { return h }
	}

	mux.Handle("GET /posts", wrap(ListHandler{
		Cache:         cache,
		PaginationCfg: cfg.Pagination,
		SummaryWords:  cfg.SummaryWords,
		WaitTimeout:   cfg.WaitTimeout,
		Logger:        logger,
	}))
	mux.Handle("GET /posts/live", &LiveHandler{
		Cache:           cache,
		PaginationCfg:   cfg.Pagination,
		SummaryWords:    cfg.SummaryWords,
		RefreshInterval: cfg.RefreshInterval,
		RefreshSchedule: cfg.RefreshSchedule,
		Upgrader:        websocket.Upgrader{CheckOrigin: cfg.CheckOrigin},
		Logger:          logger,
	})
	mux.Handle("GET /posts/{slug}", wrap(GetHandler{
		Cache:        cache,
		SummaryWords: cfg.SummaryWords,
		WaitTimeout:  cfg.WaitTimeout,
		Logger:       logger,
	}))
}
