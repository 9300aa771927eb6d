package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "normal request", target: "/posts?page=2", wantStatus: http.StatusOK},
		{name: "path at limit", target: "/" + strings.Repeat("a", maxPathLength-1), wantStatus: http.StatusOK},
		{name: "path too long", target: "/" + strings.Repeat("a", maxPathLength), wantStatus: http.StatusRequestURITooLong},
		{name: "query at limit", target: "/posts?" + strings.Repeat("q", maxQueryLength), wantStatus: http.StatusOK},
		{name: "query too long", target: "/posts?" + strings.Repeat("q", maxQueryLength+1), wantStatus: http.StatusRequestURITooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := InputValidation()(okHandler())
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestInputValidation_BodySizeLimit(t *testing.T) {
	var readErr error
	handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	body := strings.NewReader(strings.Repeat("x", 1<<20+1))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/posts", body))

	assert.Error(t, readErr)
}
