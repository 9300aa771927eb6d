// Package fetch defines the port through which the post collection is loaded
// from a remote content source, together with the failure taxonomy every
// source implementation reports.
package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors for post fetch operations.
var (
	// ErrTransport indicates the request could not be completed or the response
	// could not be understood: connection failures, non-2xx statuses, invalid
	// JSON, malformed envelopes or collections.
	ErrTransport = errors.New("transport error")

	// ErrQuery indicates the endpoint answered with a non-empty errors array.
	ErrQuery = errors.New("query error")

	// ErrEmptyResult indicates the response carried data but no post collection.
	ErrEmptyResult = errors.New("empty result")
)

// Error kinds reported by KindOf.
const (
	KindTransport   = "transport"
	KindQuery       = "query"
	KindEmptyResult = "empty_result"
	KindUnknown     = "unknown"
)

// TransportError wraps a failure below the query layer.
type TransportError struct {
	Op         string // "request", "status", "decode", "validate", "circuit", "ratelimit"
	StatusCode int    // HTTP status when Op == "status"
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("transport error: %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("transport error: %s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
	default:
		return "transport error: " + e.Op
	}
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as a match.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// QueryError carries the errors array returned by the endpoint.
// Message is the first error's message and is what the render layer shows.
type QueryError struct {
	Message  string
	Messages []string
}

// NewQueryError builds a QueryError from the messages in response order.
func NewQueryError(messages []string) *QueryError {
	e := &QueryError{Messages: messages}
	if len(messages) > 0 {
		e.Message = messages[0]
	}
	return e
}

func (e *QueryError) Error() string { return e.Message }

// Is reports ErrQuery as a match.
func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// EmptyResultError reports a response whose data lacked the expected collection.
type EmptyResultError struct {
	Path string // e.g. "data.posts.nodes"
}

func (e *EmptyResultError) Error() string {
	if e.Path == "" {
		return "empty result"
	}
	return "empty result: " + e.Path + " missing"
}

// Is reports ErrEmptyResult as a match.
func (e *EmptyResultError) Is(target error) bool { return target == ErrEmptyResult }

// KindOf classifies err for logs and metric labels.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQuery):
		return KindQuery
	case errors.Is(err, ErrEmptyResult):
		return KindEmptyResult
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindUnknown
	}
}

// IsRemoteAnswer reports whether err means the endpoint was reached and
// answered, even if the answer was unusable. Circuit breakers count these
// as successes.
func IsRemoteAnswer(err error) bool {
	return errors.Is(err, ErrQuery) || errors.Is(err, ErrEmptyResult)
}
