package domain

type LoginCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterCommand struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=7"`
}

// UpdateProfileCommand carries only the fields the user actually changed;
// empty fields are left untouched by the backend.
type UpdateProfileCommand struct {
	Name   string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  string `json:"phone,omitempty" validate:"omitempty,min=7"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
}
