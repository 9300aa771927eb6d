// Package responsewriter provides a wrapper for http.ResponseWriter that records response metrics.
// It tracks status codes and bytes written for logging, metrics and tracing,
// and passes Hijack and Flush through so websocket upgrades keep working.
package responsewriter

import (
	"bufio"
	"errors"
	"net"
	"net/http"
)

// ErrHijackUnsupported is returned when the wrapped writer cannot be hijacked.
var ErrHijackUnsupported = errors.New("responsewriter: underlying ResponseWriter does not support hijacking")

// ResponseWriter wraps http.ResponseWriter to record response metrics.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	bytesWritten  int
	headerWritten bool
	hijacked      bool
}

// Wrap wraps an http.ResponseWriter for metric recording.
// An already wrapped writer is returned unchanged.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the status code and calls the underlying WriteHeader.
func (w *ResponseWriter) WriteHeader(statusCode int) {
	if !w.headerWritten {
		w.statusCode = statusCode
		w.headerWritten = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

// Write writes the response body and records the size.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// Flush sends buffered data to the client when the underlying writer supports it.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack hands the connection to the caller. A successful hijack is recorded
// as 101 Switching Protocols.
func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, ErrHijackUnsupported
	}
	conn, rw, err := h.Hijack()
	if err == nil {
		w.hijacked = true
		w.headerWritten = true
		w.statusCode = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

// StatusCode returns the recorded HTTP status code.
func (w *ResponseWriter) StatusCode() int {
	return w.statusCode
}

// BytesWritten returns the number of bytes written to the response.
func (w *ResponseWriter) BytesWritten() int {
	return w.bytesWritten
}

// Hijacked reports whether the connection was taken over, e.g. by a websocket upgrade.
func (w *ResponseWriter) Hijacked() bool {
	return w.hijacked
}

// Unwrap returns the underlying http.ResponseWriter (for http.ResponseController support).
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
