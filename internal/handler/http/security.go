package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"postpulse/internal/handler/http/requestid"
)

// CSP policies. The swagger UI loads its assets from jsDelivr; everything
// else is JSON and needs nothing.
const (
	StrictCSP    = "default-src 'none'; connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'"
	SwaggerUICSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
		"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; img-src 'self' data: https:; " +
		"font-src 'self' data:; connect-src 'self' blob:; frame-ancestors 'none'; base-uri 'self'; " +
		"form-action 'self'; object-src 'none'"
)

// SecurityHeaders sets the CSP for the request path plus the usual
// hardening headers.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy := StrictCSP
			if strings.HasPrefix(r.URL.Path, "/swagger/") {
				policy = SwaggerUICSP
			}
			h := w.Header()
			h.Set("Content-Security-Policy", policy)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}

// CORSConfig holds the cross-origin policy for the render layer.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of exact origins; "*" allows any.
	AllowedOrigins []string
	AllowedHeaders []string
	MaxAge         int // seconds preflight results may be cached
}

// DefaultCORSConfig allows the given origins with the read-only methods.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedHeaders: []string{"Content-Type", requestid.RequestIDHeader},
		MaxAge:         86400,
	}
}

// AllowsOrigin reports whether origin is whitelisted.
func (c CORSConfig) AllowsOrigin(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// CheckWebsocketOrigin accepts same-host and whitelisted origins. It has
// the signature of websocket.Upgrader.CheckOrigin.
func (c CORSConfig) CheckWebsocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || c.AllowsOrigin(origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// CORS handles cross-origin requests. Requests without an Origin header pass
// through untouched; disallowed origins get no CORS headers and the browser
// blocks the response. Preflights from allowed origins are answered with 204.
func CORS(config CORSConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if !config.AllowsOrigin(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", requestid.RequestIDHeader+", Retry-After")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
