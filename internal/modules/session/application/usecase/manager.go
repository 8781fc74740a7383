package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/auth"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/validate"
)

// Manager is the single owner of the token/user pair. All mutation goes
// through it: login and the backend-rejection path are the only writers,
// every outgoing request reads the latest token through Token. It doubles
// as the transport's credential source.
type Manager struct {
	backend port.AuthBackend
	store   port.StateStore

	// onExpired receives the redirect signal after a forced reset.
	onExpired func()

	mu    sync.RWMutex
	token string
	user  domain.User
}

func NewManager(backend port.AuthBackend, store port.StateStore, onExpired func()) *Manager {
	return &Manager{backend: backend, store: store, onExpired: onExpired}
}

// Hydrate restores a previously stored session on process start. Nothing
// happens when no usable token exists: placeholder literals and tokens
// whose expiry claim has passed leave the session anonymous. Safe to call
// more than once.
func (m *Manager) Hydrate() {
	snapshot, found, err := m.store.Load()
	if err != nil {
		slog.Warn("stored session unreadable, starting anonymous", slog.Any("error", err))
		return
	}
	if !found {
		return
	}
	token := strings.TrimSpace(snapshot.Token)
	if token == "" || normalization.IsPlaceholder(token) {
		return
	}
	if auth.Expired(token, time.Now()) {
		slog.Info("stored session expired, starting anonymous")
		if err := m.store.Clear(); err != nil {
			slog.Warn("stored session not cleared", slog.Any("error", err))
		}
		return
	}

	m.mu.Lock()
	m.token = token
	m.user = snapshot.User
	m.mu.Unlock()
	slog.Info("session restored", slog.String("user_id", snapshot.User.ID))
}

// Login authenticates and installs the resulting session. An extraction
// failure clears whatever session existed; a transport failure keeps it.
func (m *Manager) Login(ctx context.Context, cmd domain.LoginCommand) (domain.User, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.User{}, err
	}

	session, err := m.backend.Login(ctx, cmd)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			m.reset()
		}
		return domain.User{}, err
	}

	m.mu.Lock()
	m.token = session.Token
	m.user = session.User
	m.mu.Unlock()
	if err := m.store.Save(session); err != nil {
		slog.Warn("session not persisted", slog.Any("error", err))
	}
	slog.Info("logged in", slog.String("user_id", session.User.ID))
	return session.User, nil
}

// Register creates an account. When the backend signs the new account in
// right away, the returned token is installed exactly like a login; when
// the response carries only the user, the session stays as it was.
func (m *Manager) Register(ctx context.Context, cmd domain.RegisterCommand) (domain.User, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.User{}, err
	}
	session, err := m.backend.Register(ctx, cmd)
	if err != nil {
		return domain.User{}, err
	}
	if session.Token != "" {
		m.mu.Lock()
		m.token = session.Token
		m.user = session.User
		m.mu.Unlock()
		if err := m.store.Save(session); err != nil {
			slog.Warn("session not persisted", slog.Any("error", err))
		}
	}
	slog.Info("account registered", slog.String("user_id", session.User.ID))
	return session.User, nil
}

// Logout tells the backend, then clears local state no matter what the
// backend said.
func (m *Manager) Logout(ctx context.Context) {
	if token := m.Token(); token != "" {
		if err := m.backend.Logout(ctx, token); err != nil {
			slog.Warn("logout not acknowledged by backend", slog.Any("error", err))
		}
	}
	m.reset()
	slog.Info("logged out")
}

// Invalidate force-resets the session after the backend rejected the given
// token. Only a token that is still current clears state, so concurrent
// rejections of the same credential collapse into one reset and one
// redirect signal.
func (m *Manager) Invalidate(rejectedToken string) {
	m.mu.Lock()
	if m.token == "" || m.token != rejectedToken {
		m.mu.Unlock()
		return
	}
	m.token = ""
	m.user = domain.User{}
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		slog.Warn("stored session not cleared", slog.Any("error", err))
	}
	slog.Info("session invalidated by backend")
	if m.onExpired != nil {
		m.onExpired()
	}
}

// Token implements the transport credential source.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns the cached snapshot of the signed-in user.
func (m *Manager) User() (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.token != ""
}

func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Profile fetches a user profile. A blank id means the signed-in user.
func (m *Manager) Profile(ctx context.Context, userID string) (domain.User, error) {
	id := m.resolveUserID(userID)
	if id == "" {
		return domain.User{}, port.ErrProfileNotFound
	}
	return m.backend.FetchProfile(ctx, id)
}

// UpdateProfile edits a profile and refreshes the cached snapshot when the
// edit touched the signed-in user.
func (m *Manager) UpdateProfile(ctx context.Context, userID string, cmd domain.UpdateProfileCommand) (domain.User, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.User{}, err
	}
	id := m.resolveUserID(userID)
	if id == "" {
		return domain.User{}, port.ErrProfileNotFound
	}
	user, err := m.backend.UpdateProfile(ctx, id, cmd)
	if err != nil {
		return domain.User{}, err
	}
	m.refreshUser(user)
	return user, nil
}

// DeleteProfile removes an account. Deleting the signed-in user's own
// account also ends the session.
func (m *Manager) DeleteProfile(ctx context.Context, userID string) error {
	id := m.resolveUserID(userID)
	if id == "" {
		return port.ErrProfileNotFound
	}
	if err := m.backend.DeleteProfile(ctx, id); err != nil {
		return err
	}

	m.mu.RLock()
	self := m.user.ID == id
	m.mu.RUnlock()
	if self {
		m.reset()
		slog.Info("account deleted, session ended", slog.String("user_id", id))
	}
	return nil
}

func (m *Manager) resolveUserID(userID string) string {
	if trimmed := strings.TrimSpace(userID); trimmed != "" {
		return trimmed
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.ID
}

func (m *Manager) refreshUser(user domain.User) {
	m.mu.Lock()
	if m.token == "" || m.user.ID != user.ID {
		m.mu.Unlock()
		return
	}
	m.user = user
	token := m.token
	m.mu.Unlock()

	if err := m.store.Save(domain.Session{User: user, Token: token}); err != nil {
		slog.Warn("session not persisted", slog.Any("error", err))
	}
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.token = ""
	m.user = domain.User{}
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		slog.Warn("stored session not cleared", slog.Any("error", err))
	}
}
