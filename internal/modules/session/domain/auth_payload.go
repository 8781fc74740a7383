package domain

import (
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// AuthError reports why a login or register response could not be turned
// into a session.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

func (e *AuthError) FailureKind() failure.Kind {
	return failure.KindUnauthorized
}

// Session is the authenticated outcome of a login: the signed-in user plus
// the bearer token every later call carries.
type Session struct {
	User  User
	Token string
}

var (
	authUserKeys  = []string{"user", "account", "profile", "customer"}
	authTokenKeys = []string{"token", "accessToken", "access_token", "authToken", "auth_token", "jwt"}
)

// ExtractSession locates user and token inside a login response. On top of
// the usual envelopes, authentication responses sometimes arrive as a
// one-element list, so index 0 is tried at every unwrap level. A token that
// is absent or a textual placeholder fails the extraction; half a session
// is worthless.
func ExtractSession(payload any) (Session, error) {
	container := authContainer(payload)
	if container == nil {
		return Session{}, &AuthError{Reason: "response carried no recognizable payload"}
	}

	userRaw := normalization.FirstMap(container, authUserKeys...)
	if userRaw == nil {
		// Some responses put the user fields right beside the token.
		userRaw = container
	}
	user, err := NormalizeUser(userRaw)
	if err != nil {
		return Session{}, &AuthError{Reason: "response carried no usable user"}
	}

	token := normalization.FirstString(container, authTokenKeys...)
	if token == "" {
		return Session{}, &AuthError{Reason: "response carried no token"}
	}
	return Session{User: user, Token: token}, nil
}

// ExtractRegistration reads a register response. The user is a hard
// requirement; the token is not, because backends differ on whether a
// fresh account is signed in immediately.
func ExtractRegistration(payload any) (Session, error) {
	container := authContainer(payload)
	if container == nil {
		return Session{}, &AuthError{Reason: "response carried no recognizable payload"}
	}
	userRaw := normalization.FirstMap(container, authUserKeys...)
	if userRaw == nil {
		userRaw = container
	}
	user, err := NormalizeUser(userRaw)
	if err != nil {
		return Session{}, &AuthError{Reason: "response carried no usable user"}
	}
	return Session{User: user, Token: normalization.FirstString(container, authTokenKeys...)}, nil
}

// ExtractUser pulls just the user out of a profile response.
func ExtractUser(payload any) (User, error) {
	container := authContainer(payload)
	if container == nil {
		return User{}, normalization.NewError("user", "payload is not an object")
	}
	userRaw := normalization.FirstMap(container, authUserKeys...)
	if userRaw == nil {
		userRaw = container
	}
	return NormalizeUser(userRaw)
}

func authContainer(payload any) map[string]any {
	if items := normalization.AsSlice(payload); len(items) > 0 {
		return normalization.AsMap(items[0])
	}
	container := normalization.AsMap(payload)
	if container == nil {
		return nil
	}
	inner, found := container["data"]
	if !found {
		return container
	}
	if items := normalization.AsSlice(inner); len(items) > 0 {
		return normalization.AsMap(items[0])
	}
	innerMap := normalization.AsMap(inner)
	if innerMap == nil {
		return container
	}
	if nested, found := innerMap["data"]; found {
		if items := normalization.AsSlice(nested); len(items) > 0 {
			return normalization.AsMap(items[0])
		}
		if nestedMap := normalization.AsMap(nested); nestedMap != nil {
			return nestedMap
		}
	}
	return innerMap
}
