package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postpulse/internal/config"
	"postpulse/internal/infra/source"
)

func probe(t *testing.T, status int, body string) Diagnostic {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	src, err := source.New(config.SourceConfig{
		Kind:     config.SourceGraphQL,
		Endpoint: srv.URL,
		Timeout:  time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return diagnose(context.Background(), src, srv.URL)
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus string
		wantCount  int
		wantOK     bool
	}{
		{
			name:       "ok",
			status:     http.StatusOK,
			body:       `{"data":{"posts":{"nodes":[{"id":"1","title":"Hello","date":"2024-03-01T10:00:00"}]}}}`,
			wantStatus: "OK",
			wantCount:  1,
			wantOK:     true,
		},
		{name: "empty", status: http.StatusOK, body: `{"data":{"posts":{"nodes":[]}}}`, wantStatus: "EMPTY", wantOK: true},
		{name: "query error", status: http.StatusOK, body: `{"errors":[{"message":"Internal error"}]}`, wantStatus: "QUERY_ERROR"},
		{name: "empty result", status: http.StatusOK, body: `{"data":{"posts":null}}`, wantStatus: "EMPTY_RESULT"},
		{name: "not found", status: http.StatusNotFound, body: `nope`, wantStatus: "TRANSPORT_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := probe(t, tt.status, tt.body)

			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantCount, d.PostCount)
			assert.Equal(t, tt.wantOK, d.OK())
			assert.Equal(t, "graphql", d.Kind)
			assert.Equal(t, "closed", d.CircuitState)
		})
	}
}

func TestDiagnose_OKFields(t *testing.T) {
	d := probe(t, http.StatusOK, `{"data":{"posts":{"nodes":[{"id":"1","title":"Hello","date":"2024-03-01T10:00:00"}]}}}`)

	assert.Equal(t, "Hello", d.FirstTitle)
	assert.Equal(t, "2024-03-01T10:00:00Z", d.LatestDate)

	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, d))
	assert.Contains(t, buf.String(), "Status:   OK")
	assert.NotContains(t, buf.String(), "Error:")
}
