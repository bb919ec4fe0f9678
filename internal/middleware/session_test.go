package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionServer() *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))))
	e.Use(SessionID(slog.Default(), "session", 3600))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, SID(c))
	})
	return e
}

func TestSessionID(t *testing.T) {
	e := sessionServer()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	first := rec.Body.String()
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	t.Run("cookie keeps the id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, first, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("tampered cookie gets a new id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "garbage"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.NotEqual(t, first, rec.Body.String())
		assert.Len(t, rec.Result().Cookies(), 1)
	})
}

func TestRotateSID(t *testing.T) {
	var moved [2]string
	failMove := false

	e := sessionServer()
	e.POST("/login", func(c echo.Context) error {
		id, err := RotateSID(c, func(oldID, newID string) error {
			if failMove {
				return errors.New("store unavailable")
			}
			moved = [2]string{oldID, newID}
			return nil
		})
		if err != nil {
			return c.String(http.StatusOK, SID(c))
		}
		return c.String(http.StatusOK, id)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first := rec.Body.String()
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	rotated := rec.Body.String()
	assert.NotEqual(t, first, rotated)
	assert.Equal(t, [2]string{first, rotated}, moved)
	require.Len(t, rec.Result().Cookies(), 1)

	t.Run("failed move keeps the id", func(t *testing.T) {
		failMove = true

		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, first, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("without cookie middleware", func(t *testing.T) {
		c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
		_, err := RotateSID(c, func(string, string) error { return nil })
		assert.ErrorIs(t, err, ErrNoSessionCookie)
	})
}
