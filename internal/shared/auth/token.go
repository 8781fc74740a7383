package auth

import (
	"net/http"
	"strings"
)

// BearerToken strips the Bearer prefix off an Authorization header value.
// Returns "" when the header is absent or not a bearer credential.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const prefix = "bearer "
	if strings.HasPrefix(strings.ToLower(header), prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// RequestToken finds the credential of an incoming request: the
// Authorization header first, then the token query parameter. The query
// fallback exists for websocket upgrades, which cannot set headers from a
// browser.
func RequestToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	if token := BearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if r.URL == nil {
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
