package responsewriter

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	assert.NotNil(t, wrapped)
	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
	assert.Equal(t, 0, wrapped.BytesWritten())
	assert.False(t, wrapped.headerWritten)
}

func TestWrap_AlreadyWrapped(t *testing.T) {
	wrapped := Wrap(httptest.NewRecorder())
	assert.Same(t, wrapped, Wrap(wrapped))
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{name: "status 200", statusCode: http.StatusOK},
		{name: "status 400", statusCode: http.StatusBadRequest},
		{name: "status 502", statusCode: http.StatusBadGateway},
		{name: "status 503", statusCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped := Wrap(rec)

			wrapped.WriteHeader(tt.statusCode)

			assert.Equal(t, tt.statusCode, wrapped.StatusCode())
			assert.True(t, wrapped.headerWritten)
			assert.Equal(t, tt.statusCode, rec.Code)
		})
	}
}

func TestResponseWriter_WriteHeader_MultipleCallsIgnored(t *testing.T) {
	wrapped := Wrap(httptest.NewRecorder())

	wrapped.WriteHeader(http.StatusOK)
	wrapped.WriteHeader(http.StatusNotFound)

	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
}

func TestResponseWriter_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	n, err := wrapped.Write([]byte(`{"status":"ready"}`))
	require.NoError(t, err)
	_, err = wrapped.Write([]byte("\n"))
	require.NoError(t, err)

	assert.Equal(t, 18, n)
	assert.Equal(t, 19, wrapped.BytesWritten())
	assert.Equal(t, http.StatusOK, wrapped.StatusCode(), "Write implies 200")
	assert.Equal(t, "{\"status\":\"ready\"}\n", rec.Body.String())
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	wrapped.Flush()

	assert.True(t, rec.Flushed)
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Equal(t, rec, Wrap(rec).Unwrap())
}

func TestResponseWriter_Hijack_Unsupported(t *testing.T) {
	wrapped := Wrap(httptest.NewRecorder())

	_, _, err := wrapped.Hijack()

	assert.ErrorIs(t, err, ErrHijackUnsupported)
	assert.False(t, wrapped.Hijacked())
}

type hijackableRecorder struct {
	*httptest.ResponseRecorder
	conn net.Conn
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return h.conn, bufio.NewReadWriter(bufio.NewReader(h.conn), bufio.NewWriter(h.conn)), nil
}

func TestResponseWriter_Hijack(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	wrapped := Wrap(&hijackableRecorder{ResponseRecorder: httptest.NewRecorder(), conn: server})

	conn, rw, err := wrapped.Hijack()

	require.NoError(t, err)
	assert.Equal(t, server, conn)
	assert.NotNil(t, rw)
	assert.True(t, wrapped.Hijacked())
	assert.Equal(t, http.StatusSwitchingProtocols, wrapped.StatusCode())
}
