package infrastructure

import (
	"net/url"
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/application/port"
)

const (
	loginPath    = "/auth-access-token"
	registerPath = "/register"
	logoutBase   = "/logout"
)

// logoutPath puts the token in the path when one is known; the backend also
// reads the bearer header, so a bare /logout still works.
func logoutPath(token string) string {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return logoutBase
	}
	return logoutBase + "/" + url.PathEscape(trimmed)
}

func profilePath(userID string) (string, error) {
	id := strings.TrimSpace(userID)
	if id == "" {
		return "", port.ErrProfileNotFound
	}
	return "/profile/" + url.PathEscape(id), nil
}
