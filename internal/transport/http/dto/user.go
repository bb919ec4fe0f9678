package dto

import (
	"artclub/internal/client"
	"artclub/internal/domain/models"
)

// RegisterRequest форма регистрации. Аккаунт создаётся неактивным посетителем.
type RegisterRequest struct {
	Username  string `json:"username" form:"username" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	FirstName string `json:"first_name,omitempty" form:"first_name"`
	LastName  string `json:"last_name,omitempty" form:"last_name"`
	Password1 string `json:"password1" form:"password1" validate:"required,min=6"`
	Password2 string `json:"password2" form:"password2" validate:"required,eqfield=Password1"`
}

type RoleRequest struct {
	Role models.Role `json:"role" form:"role" validate:"required,oneof=admin member visitor"`
}

type ProfileRequest struct {
	FirstName      string  `json:"first_name" form:"first_name" validate:"max=150"`
	LastName       string  `json:"last_name" form:"last_name" validate:"max=150"`
	Email          string  `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	ProfilePicture *Upload `json:"-" form:"-"`
}

func (r ProfileRequest) Body() any {
	if r.ProfilePicture == nil {
		return r
	}
	m := client.NewMultipart().
		Set("first_name", r.FirstName).
		Set("last_name", r.LastName)
	if r.Email != "" {
		m.Set("email", r.Email)
	}
	return attach(m, "profile_picture", r.ProfilePicture)
}

type PasswordResetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	UID          string `json:"uid" form:"uid" validate:"required"`
	Token        string `json:"token" form:"token" validate:"required"`
	NewPassword1 string `json:"new_password1" form:"new_password1" validate:"required,min=6"`
	NewPassword2 string `json:"new_password2" form:"new_password2" validate:"required,eqfield=NewPassword1"`
}
