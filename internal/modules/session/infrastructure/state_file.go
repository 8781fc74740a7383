package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/session/domain"
)

// stateDocument is the on-disk shape, keyed under the same well-known names
// the web client used for its local storage.
type stateDocument struct {
	Token string      `json:"parking.token,omitempty"`
	User  *storedUser `json:"parking.user,omitempty"`
}

type storedUser struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

// FileStore persists the session snapshot as a small json file, the
// desktop stand-in for browser local storage. The file carries the bearer
// token, so it is written private to the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (domain.Session, bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}

	var doc stateDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Session{}, false, fmt.Errorf("decode session state: %w", err)
	}
	if strings.TrimSpace(doc.Token) == "" {
		return domain.Session{}, false, nil
	}

	session := domain.Session{Token: doc.Token}
	if doc.User != nil {
		session.User = domain.User{
			ID:     doc.User.ID,
			Name:   doc.User.Name,
			Email:  doc.User.Email,
			Phone:  doc.User.Phone,
			Avatar: doc.User.Avatar,
			Role:   domain.ParseRole(doc.User.Role),
		}
	}
	return session, true, nil
}

func (s *FileStore) Save(session domain.Session) error {
	doc := stateDocument{
		Token: session.Token,
		User: &storedUser{
			ID:     session.User.ID,
			Name:   session.User.Name,
			Email:  session.User.Email,
			Phone:  session.User.Phone,
			Avatar: session.User.Avatar,
			Role:   string(session.User.Role),
		},
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	// Write through a temp file; the rename is atomic on the same
	// filesystem, so readers see the old state or the new, never half.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var _ port.StateStore = (*FileStore)(nil)
