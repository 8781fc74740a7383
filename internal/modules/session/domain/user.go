package domain

import (
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// Role separates ordinary customers from garage administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrator", "owner", "manager":
		return RoleAdmin
	default:
		return RoleUser
	}
}

var (
	userIDKeys     = []string{"id", "_id", "user_id", "userId", "uid"}
	userNameKeys   = []string{"name", "fullName", "full_name", "username", "user_name"}
	userEmailKeys  = []string{"email", "emailAddress", "email_address", "mail"}
	userPhoneKeys  = []string{"phone", "phoneNumber", "phone_number", "mobile"}
	userAvatarKeys = []string{"avatar", "avatarUrl", "avatar_url", "image", "photo", "picture", "profileImage", "profile_image"}
	userRoleKeys   = []string{"role", "userRole", "user_role", "type"}
)

type User struct {
	ID     string
	Name   string
	Email  string
	Phone  string
	Avatar string
	Role   Role
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeUser maps a raw backend object onto a User. Identity and email
// cannot default; their absence fails the whole payload.
func NormalizeUser(raw map[string]any) (User, error) {
	id := normalization.FirstString(raw, userIDKeys...)
	if id == "" {
		return User{}, normalization.NewError("user", "missing id")
	}
	email := normalization.FirstString(raw, userEmailKeys...)
	if email == "" {
		return User{}, normalization.NewError("user", "missing email")
	}
	return User{
		ID:     id,
		Name:   normalization.FirstString(raw, userNameKeys...),
		Email:  email,
		Phone:  normalization.FirstString(raw, userPhoneKeys...),
		Avatar: normalization.FirstString(raw, userAvatarKeys...),
		Role:   ParseRole(normalization.FirstString(raw, userRoleKeys...)),
	}, nil
}
