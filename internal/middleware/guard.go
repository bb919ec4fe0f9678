package middleware

import (
	"net/http"
	"strings"

	"artclub/internal/domain/models"
	"artclub/internal/guard"

	"github.com/labstack/echo/v4"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// SessionSource отдаёт снимок авторизации для текущего запроса
type SessionSource func(c echo.Context) models.Session

// RequireSession пускает только запросы с активной сессией
func RequireSession(src SessionSource) echo.MiddlewareFunc {
	return RequireRole(src)
}

// RequireRole проверяет сессию и роль. Браузер получает 303,
// JSON-клиент получает 401/403 с адресом перехода.
func RequireRole(src SessionSource, roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch guard.Decide(src(c), roles...) {
			case guard.RedirectLogin:
				return deny(c, http.StatusUnauthorized, LoginPath)
			case guard.RedirectUnauthorized:
				return deny(c, http.StatusForbidden, UnauthorizedPath)
			}
			return next(c)
		}
	}
}

func deny(c echo.Context, status int, location string) error {
	if wantsJSON(c.Request()) {
		return c.JSON(status, map[string]string{
			"error":    http.StatusText(status),
			"redirect": location,
		})
	}
	return c.Redirect(http.StatusSeeOther, location)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(r.URL.Path, "/api/")
}
