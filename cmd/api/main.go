package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	"postpulse/internal/common/pagination"
	"postpulse/internal/config"
	"postpulse/internal/infra/source"
	"postpulse/internal/observability/logging"
	"postpulse/internal/observability/tracing"
	"postpulse/internal/usecase/query"

	hhttp "postpulse/internal/handler/http"
	hpost "postpulse/internal/handler/http/post"
	"postpulse/internal/handler/http/requestid"

	_ "postpulse/docs" // swagger docs
)

// @title           PostPulse API
// @version         1.0
// @description     Paged blog post listing backed by a cached headless content source.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	configPath := flag.String("config", config.Path(""), "path to the YAML site config (CONFIG_PATH)")
	flag.Parse()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadSiteConfig(*configPath, logger)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	version := getVersion()
	shutdownTracing := tracing.InitProvider("postpulse", version)

	components, err := setupServer(logger, cfg, version)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runServer(logger, cfg, components, version); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds what runServer starts and tears down.
type ServerComponents struct {
	Handler     http.Handler
	Cache       *query.Cache
	Refresher   *query.Refresher
	RateLimiter *hhttp.RateLimiter
}

// setupServer wires the source, cache, routes and middleware.
func setupServer(logger *slog.Logger, cfg *config.SiteConfig, version string) (*ServerComponents, error) {
	src, err := source.New(cfg.Source, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("post source configured",
		slog.String("kind", src.Kind),
		slog.String("circuit", src.Circuit.Name()))

	cache := query.NewCache(src.Fetcher, query.Config{
		StaleTime:    cfg.Cache.StaleTime,
		FetchTimeout: cfg.Cache.FetchTimeout,
	}, logger)

	// One process-wide refresher keeps the collection warm for request
	// views, which never mount long enough to start their own.
	var refresher *query.Refresher
	if cfg.Cache.RefreshSchedule != "" {
		refresher, err = query.NewRefresher(cache, cfg.Cache.RefreshSchedule, logger)
		if err != nil {
			return nil, err
		}
	}

	paginationCfg := pagination.Config{
		DefaultPage: 1,
		PageSize:    cfg.Listing.PageSize,
		MaxPageSize: config.MaxPageSize,
	}.WithDefaults()
	if err := paginationCfg.Validate(); err != nil {
		return nil, fmt.Errorf("pagination config: %w", err)
	}

	corsCfg := hhttp.DefaultCORSConfig(cfg.Server.CORSAllowedOrigins)

	mux := http.NewServeMux()
	hpost.Register(mux, cache, hpost.Config{
		Pagination:      paginationCfg,
		SummaryWords:    cfg.Listing.SummaryWords,
		WaitTimeout:     hpost.DefaultWaitTimeout,
		RefreshSchedule: cfg.Cache.RefreshSchedule,
		CheckOrigin:     corsCfg.CheckWebsocketOrigin,
		Wrap:            hhttp.Timeout(cfg.Server.RequestTimeout),
	}, logger)

	mux.Handle("GET /health", &hhttp.HealthHandler{Cache: cache, Circuit: src.Circuit, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Cache: cache})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var limiter *hhttp.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = hhttp.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitWindow)
		logger.Info("rate limiting initialized",
			slog.Int("limit", cfg.Server.RateLimit),
			slog.Duration("window", cfg.Server.RateLimitWindow))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	return &ServerComponents{
		Handler:     applyMiddleware(logger, mux, limiter, corsCfg),
		Cache:       cache,
		Refresher:   refresher,
		RateLimiter: limiter,
	}, nil
}

// applyMiddleware wraps the handler with the middleware chain.
// Order, outermost first: CORS, Request ID, Tracing, Rate Limit, Recovery,
// Logging, Input Validation, Security Headers, Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler, limiter *hhttp.RateLimiter, corsCfg hhttp.CORSConfig) http.Handler {
	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.SecurityHeaders()(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.LimitRequestBody(maxRequestBodyBytes)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	if limiter != nil {
		chain = limiter.Limit(chain)
	}
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = hhttp.CORS(corsCfg, logger)(chain)

	logger.Info("CORS enabled", slog.Any("allowed_origins", corsCfg.AllowedOrigins))
	return chain
}

// GET-only routes never need more than this.
const maxRequestBodyBytes = 1 << 20

// runServer serves until SIGINT/SIGTERM, then shuts down gracefully.
func runServer(logger *slog.Logger, cfg *config.SiteConfig, components *ServerComponents, version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Warm the cache so the first request does not wait on the source.
	components.Cache.Refresh(ctx)
	if components.Refresher != nil {
		components.Refresher.Start()
		defer components.Refresher.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	if components.RateLimiter != nil {
		window := cfg.Server.RateLimitWindow
		g.Go(func() error {
			hhttp.StartRateLimitCleanup(gctx, components.RateLimiter, window, 10*window, logger)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
