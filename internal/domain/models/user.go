package models

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleVisitor Role = "visitor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleVisitor:
		return true
	}
	return false
}

type User struct {
	PK             int64  `json:"pk"`
	Username       string `json:"username,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	IsActive       bool   `json:"is_active"`
	IsStaff        bool   `json:"is_staff,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

func (u User) Key() int64 { return u.PK }

// FullName имя для таблиц; если имени нет, показываем email
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
