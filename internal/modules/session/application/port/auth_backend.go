package port

import (
	"context"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
)

var ErrProfileNotFound = failure.NotFound("profile not found")

// AuthBackend performs the authentication and profile calls. Register
// returns a Session whose token may be empty; not every backend signs a
// fresh account in.
type AuthBackend interface {
	Login(ctx context.Context, cmd domain.LoginCommand) (domain.Session, error)
	Register(ctx context.Context, cmd domain.RegisterCommand) (domain.Session, error)
	Logout(ctx context.Context, token string) error
	FetchProfile(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, cmd domain.UpdateProfileCommand) (domain.User, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// StateStore persists the session snapshot across process restarts. Token
// and user travel as a unit and are cleared as a unit.
type StateStore interface {
	Load() (domain.Session, bool, error)
	Save(session domain.Session) error
	Clear() error
}
