package transport

import "fmt"

// ErrorKind separates the three ways a call can fail below the application
// layer: the request never completed (network), it ran out of time, or the
// server answered with a non-2xx status.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindTimeout ErrorKind = "timeout"
	KindHTTP    ErrorKind = "http"
)

// Error is the single failure type surfaced by Send. For HTTP failures it
// retains the status and a bounded copy of the response body so callers can
// inspect backend-provided messages.
type Error struct {
	Kind   ErrorKind
	Status int
	Body   []byte
	cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "request timed out"
	case KindNetwork:
		if e.cause != nil {
			return fmt.Sprintf("network failure: %v", e.cause)
		}
		return "network failure"
	default:
		return fmt.Sprintf("http %d", e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsClientError reports whether the failure is an HTTP 4xx response.
func (e *Error) IsClientError() bool {
	return e.Kind == KindHTTP && e.Status >= 400 && e.Status < 500
}

func newTimeoutError(cause error) *Error {
	return &Error{Kind: KindTimeout, cause: cause}
}

func newNetworkError(cause error) *Error {
	return &Error{Kind: KindNetwork, cause: cause}
}

func newHTTPError(status int, body []byte) *Error {
	return &Error{Kind: KindHTTP, Status: status, Body: body}
}
