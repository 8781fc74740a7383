package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
)

// HTTPErrorInfo is the status and message a handler sends for a failed
// operation.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// ErrorMapping pins one sentinel error to an exact wire response.
type ErrorMapping struct {
	Err     error
	Status  int
	Message string
}

// ErrorMapper turns store and domain errors into HTTP responses. Explicit
// mappings win; anything else that carries a failure kind follows the
// kind table; the rest gets the configured default.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

// WithMapping adds a sentinel mapping. An empty message falls back to the
// sentinel's own text.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{Err: err, Status: status, Message: message})
	return m
}

// WithDefault sets the response for errors nothing else matches.
func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.defaultStatus = status
	m.defaultMessage = message
	return m
}

// Map converts an error to the status and message to send.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Err) {
			message := mapping.Message
			if message == "" {
				message = mapping.Err.Error()
			}
			return HTTPErrorInfo{Status: mapping.Status, Message: message}
		}
	}

	if info, ok := classify(err); ok {
		return info
	}
	return HTTPErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}

var kindStatus = map[failure.Kind]int{
	failure.KindValidation:   http.StatusBadRequest,
	failure.KindUnauthorized: http.StatusUnauthorized,
	failure.KindForbidden:    http.StatusForbidden,
	failure.KindNotFound:     http.StatusNotFound,
	failure.KindTimeout:      http.StatusRequestTimeout,
	failure.KindServer:       http.StatusInternalServerError,
}

func classify(err error) (HTTPErrorInfo, bool) {
	var kind failure.Kind

	var classified failure.Classified
	var kinder failure.Kinder
	switch {
	case errors.As(err, &classified):
		kind = classified.Kind
	case errors.As(err, &kinder):
		kind = kinder.FailureKind()
	default:
		return HTTPErrorInfo{}, false
	}

	status, ok := kindStatus[kind]
	if !ok {
		return HTTPErrorInfo{}, false
	}
	return HTTPErrorInfo{Status: status, Message: err.Error()}, true
}
