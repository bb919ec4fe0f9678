package models

// Session снимок авторизации: токен API, пользователь и его роль
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
	Role  Role   `json:"role"`
}

func (s Session) Active() bool {
	return s.Token != ""
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse ответ auth/login/
type LoginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}
