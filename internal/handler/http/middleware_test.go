package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postpulse/internal/handler/http/requestid"
	"postpulse/internal/observability/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.RemoteAddr = ip + ":12345"
	return req
}

func TestRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		requests int
		allowed  int
	}{
		{name: "under limit", limit: 5, requests: 3, allowed: 3},
		{name: "at limit", limit: 5, requests: 5, allowed: 5},
		{name: "over limit", limit: 5, requests: 8, allowed: 5},
		{name: "limit clamped to one", limit: 0, requests: 3, allowed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.limit, time.Minute)
			frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			rl.now = func() time.Time { return frozen }
			handler := rl.Limit(okHandler())

			allowed := 0
			for i := 0; i < tt.requests; i++ {
				rr := httptest.NewRecorder()
				handler.ServeHTTP(rr, requestFrom("192.168.1.1"))
				if rr.Code == http.StatusOK {
					allowed++
				} else {
					assert.Equal(t, http.StatusTooManyRequests, rr.Code)
					assert.Equal(t, "1", rr.Header().Get("Retry-After"))
				}
			}
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	now = now.Add(time.Second)
	assert.True(t, rl.allow("10.0.0.1"))
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }

	assert.True(t, rl.allow("192.168.1.1"))
	assert.False(t, rl.allow("192.168.1.1"))
	assert.True(t, rl.allow("192.168.1.2"))
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_CleanupExpired(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	rl.allow("10.0.0.2")

	removed := rl.CleanupExpired(time.Minute)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, rl.Len())
}

func TestStartRateLimitCleanup_StopsOnCancel(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartRateLimitCleanup(ctx, rl, 5*time.Millisecond, 0, nil)
		close(done)
	}()

	rl.allow("10.0.0.1")
	require.Eventually(t, func() bool { return rl.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop after cancel")
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, slog.LevelInfo)

	var fromCtx *slog.Logger
	handler := requestid.Middleware(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("body"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/posts?page=2", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-123")
	req.Header.Set("User-Agent", "test-agent/1.0")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, fromCtx)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "/posts", entry["path"])
	assert.Equal(t, "page=2", entry["query"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
	assert.Equal(t, float64(4), entry["bytes"])
}

func TestRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		panicValue  interface{}
		shouldPanic bool
	}{
		{name: "panic with string", panicValue: "something went wrong", shouldPanic: true},
		{name: "panic with error", panicValue: fmt.Errorf("test error"), shouldPanic: true},
		{name: "no panic", shouldPanic: false},
		{name: "panic with number", panicValue: 42, shouldPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.shouldPanic {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

			if tt.shouldPanic {
				assert.Equal(t, http.StatusInternalServerError, rr.Code)
				assert.NotContains(t, rr.Body.String(), "test error")
			} else {
				assert.Equal(t, http.StatusOK, rr.Code)
			}
		})
	}
}

func TestLimitRequestBody(t *testing.T) {
	tests := []struct {
		name           string
		maxBytes       int64
		bodySize       int
		expectedStatus int
	}{
		{name: "within limit", maxBytes: 1024, bodySize: 512, expectedStatus: http.StatusOK},
		{name: "exactly at limit", maxBytes: 1024, bodySize: 1024, expectedStatus: http.StatusOK},
		{name: "exceeds limit", maxBytes: 100, bodySize: 200, expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := LimitRequestBody(tt.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, err := io.ReadAll(r.Body); err != nil {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		wantIP     string
	}{
		{
			name:       "X-Forwarded-For single IP",
			remoteAddr: "192.168.1.1:12345",
			xff:        "203.0.113.195",
			wantIP:     "203.0.113.195",
		},
		{
			name:       "X-Forwarded-For multiple IPs",
			remoteAddr: "192.168.1.1:12345",
			xff:        "203.0.113.195, 70.41.3.18, 150.172.238.178",
			wantIP:     "203.0.113.195",
		},
		{
			name:       "X-Real-IP",
			remoteAddr: "192.168.1.1:12345",
			xri:        "203.0.113.195",
			wantIP:     "203.0.113.195",
		},
		{
			name:       "RemoteAddr fallback",
			remoteAddr: "192.168.1.1:12345",
			wantIP:     "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			remoteAddr: "192.168.1.1:12345",
			xff:        "203.0.113.195",
			xri:        "198.51.100.178",
			wantIP:     "203.0.113.195",
		},
		{
			name:       "IPv6",
			remoteAddr: "[2001:db8::1]:12345",
			wantIP:     "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			got := extractIP(req)
			if got != tt.wantIP {
				t.Errorf("extractIP() = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestParseFirstIP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			input: "203.0.113.195",
			want:  "203.0.113.195",
		},
		{
			input: "203.0.113.195, 70.41.3.18",
			want:  "203.0.113.195",
		},
		{
			input: "invalid, 70.41.3.18",
			want:  "",
		},
		{
			input: "",
			want:  "",
		},
		{
			input: "2001:db8::1",
			want:  "2001:db8::1",
		},
		{
			input: "2001:db8::1, 2001:db8::2",
			want:  "2001:db8::1",
		},
	}


	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFirstIP(tt.input))
		})
	}
}
