package infrastructure

import (
	"context"
	"net/http"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/platform/transport"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// AuthHTTPClient talks to the authentication and profile endpoints. Login
// and register go out anonymous; everything else rides the session
// credential the transport injects.
type AuthHTTPClient struct {
	transport *transport.Client
}

func NewAuthHTTPClient(client *transport.Client) *AuthHTTPClient {
	return &AuthHTTPClient{transport: client}
}

func (c *AuthHTTPClient) Login(ctx context.Context, cmd domain.LoginCommand) (domain.Session, error) {
	res, err := c.transport.Send(ctx, transport.Request{
		Method:    http.MethodPost,
		Path:      loginPath,
		Body:      cmd,
		Anonymous: true,
	})
	if err != nil {
		return domain.Session{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.Session{}, &domain.AuthError{Reason: "response was not valid json"}
	}
	return domain.ExtractSession(payload)
}

func (c *AuthHTTPClient) Register(ctx context.Context, cmd domain.RegisterCommand) (domain.Session, error) {
	res, err := c.transport.Send(ctx, transport.Request{
		Method:    http.MethodPost,
		Path:      registerPath,
		Body:      cmd,
		Anonymous: true,
	})
	if err != nil {
		return domain.Session{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.Session{}, &domain.AuthError{Reason: "response was not valid json"}
	}
	return domain.ExtractRegistration(payload)
}

func (c *AuthHTTPClient) Logout(ctx context.Context, token string) error {
	_, err := c.transport.Send(ctx, transport.Request{
		Method: http.MethodDelete,
		Path:   logoutPath(token),
	})
	return err
}

func (c *AuthHTTPClient) FetchProfile(ctx context.Context, userID string) (domain.User, error) {
	path, err := profilePath(userID)
	if err != nil {
		return domain.User{}, err
	}
	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return domain.User{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.User{}, normalization.NewError("user", "invalid json payload")
	}
	return domain.ExtractUser(payload)
}

func (c *AuthHTTPClient) UpdateProfile(ctx context.Context, userID string, cmd domain.UpdateProfileCommand) (domain.User, error) {
	path, err := profilePath(userID)
	if err != nil {
		return domain.User{}, err
	}
	res, err := c.transport.Send(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   cmd,
	})
	if err != nil {
		return domain.User{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.User{}, normalization.NewError("user", "invalid json payload")
	}
	if payload == nil {
		// Some update responses carry no body at all.
		return c.FetchProfile(ctx, userID)
	}
	return domain.ExtractUser(payload)
}

func (c *AuthHTTPClient) DeleteProfile(ctx context.Context, userID string) error {
	path, err := profilePath(userID)
	if err != nil {
		return err
	}
	_, err = c.transport.Send(ctx, transport.Request{Method: http.MethodDelete, Path: path})
	return err
}

var _ port.AuthBackend = (*AuthHTTPClient)(nil)
