package guard

import (
	"slices"

	"artclub/internal/domain/models"
)

type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	}
	return "unknown"
}

// Allowed единственная политика доступа по ролям. Пустой набор ролей открыт всем.
func Allowed(role models.Role, required ...models.Role) bool {
	if len(required) == 0 {
		return true
	}
	return slices.Contains(required, role)
}

// Decide сначала проверяет наличие сессии, затем роль
func Decide(s models.Session, required ...models.Role) Decision {
	if !s.Active() {
		return RedirectLogin
	}
	if !Allowed(s.Role, required...) {
		return RedirectUnauthorized
	}
	return Allow
}

// Роли, которым открыты разделы приложения
var (
	AdminOnly  = []models.Role{models.RoleAdmin}
	Members    = []models.Role{models.RoleAdmin, models.RoleMember}
	Authorized = []models.Role{models.RoleAdmin, models.RoleMember, models.RoleVisitor}
)
