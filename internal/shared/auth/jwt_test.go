package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndValidate(t *testing.T) {
	t.Parallel()

	token, err := Sign("secret", "U1", "Dana", "admin", time.Hour)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := Validate("secret", token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Subject != "U1" || claims.Role != "admin" {
		t.Fatalf("claims = %+v, want U1/admin", claims)
	}

	if _, err := Validate("wrong", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret error = %v, want ErrInvalidToken", err)
	}
	if _, err := Validate("secret", "  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("blank token error = %v, want ErrMissingToken", err)
	}
}

func TestExpired(t *testing.T) {
	t.Parallel()

	token, err := Sign("secret", "U1", "", "", time.Minute)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if Expired(token, time.Now()) {
		t.Error("fresh token reported expired")
	}
	if !Expired(token, time.Now().Add(2*time.Minute)) {
		t.Error("stale token reported live")
	}
	if Expired("not-a-jwt", time.Now()) {
		t.Error("opaque token must count as live")
	}
}

func TestRequestToken(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/bookings", nil)
	r.Header.Set("Authorization", "Bearer abc")
	if got := RequestToken(r); got != "abc" {
		t.Errorf("header token = %q, want abc", got)
	}

	r = httptest.NewRequest("GET", "/ws/updates?token=xyz", nil)
	if got := RequestToken(r); got != "xyz" {
		t.Errorf("query token = %q, want xyz", got)
	}

	r = httptest.NewRequest("GET", "/bookings", nil)
	r.Header.Set("Authorization", "Basic abc")
	if got := RequestToken(r); got != "" {
		t.Errorf("basic credential leaked through: %q", got)
	}
}
