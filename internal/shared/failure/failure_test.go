package failure

import (
	"errors"
	"testing"

	"github.com/abdelrahmanseada/Car-Parking/internal/platform/transport"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

func TestClassifyTransportStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"validation", 400, `{}`, KindValidation},
		{"unprocessable", 422, `{}`, KindValidation},
		{"conflict", 409, `{}`, KindValidation},
		{"unauthorized", 401, `{}`, KindUnauthorized},
		{"forbidden", 403, `{}`, KindForbidden},
		{"not found", 404, `{}`, KindNotFound},
		{"server", 500, `{}`, KindServer},
		{"bad gateway", 502, `{}`, KindServer},
		{"teapot", 418, `{}`, KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := transportHTTPError(tc.status, tc.body)
			got := Classify(err)
			if got.Kind != tc.want {
				t.Fatalf("expected kind %s, got %s", tc.want, got.Kind)
			}
			if got.Message == "" {
				t.Fatal("expected a readable message")
			}
		})
	}
}

func TestClassifyPrefersBackendMessageVerbatim(t *testing.T) {
	err := transportHTTPError(400, `{"message":"Slot is already released"}`)
	got := Classify(err)
	if got.Kind != KindValidation {
		t.Fatalf("expected validation, got %s", got.Kind)
	}
	if got.Message != "Slot is already released" {
		t.Fatalf("expected verbatim backend message, got %q", got.Message)
	}
}

func TestClassifyTransportLevelKinds(t *testing.T) {
	got := Classify(&transport.Error{Kind: transport.KindTimeout})
	if got.Kind != KindTimeout {
		t.Fatalf("expected timeout, got %s", got.Kind)
	}

	got = Classify(&transport.Error{Kind: transport.KindNetwork})
	if got.Kind != KindNetwork {
		t.Fatalf("expected network, got %s", got.Kind)
	}
}

func TestClassifyNormalizationError(t *testing.T) {
	err := normalization.NewError("garage", "missing id")
	got := Classify(err)
	if got.Kind != KindNormalization {
		t.Fatalf("expected normalization, got %s", got.Kind)
	}
	if got.Message != "cannot normalize garage: missing id" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestClassifyPassthroughAndDeterminism(t *testing.T) {
	original := NotFound("slot S9 was not found")
	got := Classify(original)
	if got != original {
		t.Fatalf("expected passthrough, got %+v", got)
	}

	err := transportHTTPError(503, `{"error":"maintenance window"}`)
	first := Classify(err)
	second := Classify(err)
	if first != second {
		t.Fatalf("classification not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyUnknown(t *testing.T) {
	got := Classify(errors.New("boom"))
	if got.Kind != KindUnknown {
		t.Fatalf("expected unknown, got %s", got.Kind)
	}
}

func TestBackendMessageShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"error field", `{"error":"No token provided"}`, "No token provided"},
		{"msg field", `{"msg":"nope"}`, "nope"},
		{"detail field", `{"detail":"missing plate"}`, "missing plate"},
		{"nested error object", `{"error":{"message":"Booking already completed"}}`, "Booking already completed"},
		{"plain json string", `"out of service"`, "out of service"},
		{"empty body", ``, ""},
		{"not json", `<html>`, ""},
		{"no known field", `{"status":"error"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BackendMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

type selfClassified struct{}

func (selfClassified) Error() string     { return "account locked" }
func (selfClassified) FailureKind() Kind { return KindForbidden }

func TestClassifyHonorsKinder(t *testing.T) {
	got := Classify(selfClassified{})
	if got.Kind != KindForbidden || got.Message != "account locked" {
		t.Fatalf("unexpected classification %+v", got)
	}
}

func transportHTTPError(status int, body string) error {
	return &transport.Error{Kind: transport.KindHTTP, Status: status, Body: []byte(body)}
}
