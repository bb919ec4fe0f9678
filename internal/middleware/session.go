package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"artclub/internal/lib/logger/sl"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionIDKey     = "sid"
	sessionIDValue   = "artclub.sid"
	sessionCookieKey = "artclub.sid.cookie"
)

var ErrNoSessionCookie = errors.New("session cookie middleware is not installed")

type sidCookie struct {
	name   string
	maxAge int
}

// SessionID выдаёт браузеру постоянный id сессии в подписанной cookie
func SessionID(log *slog.Logger, name string, maxAge int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(name, c)
			if sess == nil {
				log.Error("session store is not configured", sl.Err(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
			}
			if err != nil {
				// подпись не сошлась: старая cookie, выдаём новую
				log.Debug("discarding session cookie", sl.Err(err))
			}

			cookie := sidCookie{name: name, maxAge: maxAge}
			c.Set(sessionCookieKey, cookie)

			id, _ := sess.Values[sessionIDKey].(string)
			if _, perr := uuid.Parse(id); perr != nil {
				id = uuid.NewString()
				if err := writeSID(c, sess, cookie, id); err != nil {
					log.Error("failed to save session cookie", sl.Err(err))
					return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
				}
			}

			c.Set(sessionIDValue, id)

			return next(c)
		}
	}
}

func writeSID(c echo.Context, sess *sessions.Session, cookie sidCookie, id string) error {
	sess.Values[sessionIDKey] = id
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookie.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return sess.Save(c.Request(), c.Response())
}

// RotateSID выдаёт новый id сессии: move переносит состояние со старого id,
// затем cookie перезаписывается. Ошибка move оставляет прежний id.
func RotateSID(c echo.Context, move func(oldID, newID string) error) (string, error) {
	cookie, ok := c.Get(sessionCookieKey).(sidCookie)
	if !ok {
		return "", ErrNoSessionCookie
	}

	sess, err := session.Get(cookie.name, c)
	if sess == nil {
		return "", err
	}

	newID := uuid.NewString()
	if err := move(SID(c), newID); err != nil {
		return "", err
	}
	if err := writeSID(c, sess, cookie, newID); err != nil {
		return "", err
	}

	c.Set(sessionIDValue, newID)

	return newID, nil
}

// SID id сессии текущего запроса
func SID(c echo.Context) string {
	id, _ := c.Get(sessionIDValue).(string)
	return id
}

// WithSID подставляет id сессии в обход cookie
func WithSID(c echo.Context, id string) {
	c.Set(sessionIDValue, id)
}
