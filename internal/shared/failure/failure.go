package failure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abdelrahmanseada/Car-Parking/internal/platform/transport"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// Kind is the user-facing error taxonomy. Every error that leaves the
// integration layer carries exactly one kind and one readable sentence.
type Kind string

const (
	KindNetwork       Kind = "network"
	KindTimeout       Kind = "timeout"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation"
	KindServer        Kind = "server"
	KindNormalization Kind = "normalization"
	KindUnknown       Kind = "unknown"
)

// Classified pairs a taxonomy kind with a human-readable message.
type Classified struct {
	Kind    Kind
	Message string
}

func (c Classified) Error() string {
	return c.Message
}

// Kinder lets domain error types declare their own classification without
// the classifier importing every module package.
type Kinder interface {
	FailureKind() Kind
}

func New(kind Kind, message string) Classified {
	return Classified{Kind: kind, Message: message}
}

func Network(message string) Classified      { return New(KindNetwork, message) }
func Timeout(message string) Classified      { return New(KindTimeout, message) }
func Unauthorized(message string) Classified { return New(KindUnauthorized, message) }
func Forbidden(message string) Classified    { return New(KindForbidden, message) }
func NotFound(message string) Classified     { return New(KindNotFound, message) }
func Validation(message string) Classified   { return New(KindValidation, message) }
func Server(message string) Classified       { return New(KindServer, message) }
func Unknown(message string) Classified      { return New(KindUnknown, message) }

// IsKind reports whether err classifies to the given kind.
func IsKind(err error, kind Kind) bool {
	return Classify(err).Kind == kind
}

// Classify maps any error from the integration layer onto the taxonomy.
// Priority: an already classified error passes through; domain errors that
// know their kind are honored; normalization failures keep their reason;
// transport failures prefer the backend's own message verbatim, then a
// status table, then the transport-level distinction. Deterministic for
// identical inputs.
func Classify(err error) Classified {
	if err == nil {
		return Classified{}
	}

	var classified Classified
	if errors.As(err, &classified) {
		return classified
	}

	var kinder Kinder
	if errors.As(err, &kinder) {
		return Classified{Kind: kinder.FailureKind(), Message: err.Error()}
	}

	var normErr *normalization.Error
	if errors.As(err, &normErr) {
		return Classified{Kind: KindNormalization, Message: normErr.Error()}
	}

	var transportErr *transport.Error
	if errors.As(err, &transportErr) {
		return classifyTransport(transportErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout("the request took too long, please try again")
	}

	return Unknown("something went wrong, please try again")
}

func classifyTransport(err *transport.Error) Classified {
	switch err.Kind {
	case transport.KindTimeout:
		return Timeout("the request took too long, please try again")
	case transport.KindNetwork:
		return Network("the parking service is unreachable, check your connection")
	}

	kind, canned := statusKind(err.Status)
	if message := BackendMessage(err.Body); message != "" {
		return Classified{Kind: kind, Message: message}
	}
	return Classified{Kind: kind, Message: canned}
}

func statusKind(status int) (Kind, string) {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return KindValidation, "the request was rejected, please check the submitted fields"
	case status == http.StatusUnauthorized:
		return KindUnauthorized, "your session has expired, please log in again"
	case status == http.StatusForbidden:
		return KindForbidden, "you do not have permission to do that"
	case status == http.StatusNotFound:
		return KindNotFound, "the requested resource was not found"
	case status == http.StatusRequestTimeout:
		return KindTimeout, "the request took too long, please try again"
	case status >= 500:
		return KindServer, "the parking service had an internal problem, please try again later"
	default:
		return KindUnknown, "the parking service returned an unexpected response"
	}
}

// BackendMessage extracts the human-readable message a backend error body
// carries, if any. The backend is inconsistent about the field name and
// sometimes nests it inside an error object.
func BackendMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var payload any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return ""
	}
	if direct, ok := payload.(string); ok {
		return normalization.AsString(direct)
	}
	container := normalization.AsMap(payload)
	if container == nil {
		return ""
	}
	if nested := normalization.FirstMap(container, "error", "errors"); nested != nil {
		if message := normalization.FirstString(nested, "message", "msg", "detail"); message != "" {
			return message
		}
	}
	return normalization.FirstString(container, "message", "error", "msg", "detail", "error_message", "errorMessage")
}
