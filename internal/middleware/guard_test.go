package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"artclub/internal/domain/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func fixedSession(s models.Session) SessionSource {
	return func(echo.Context) models.Session { return s }
}

func TestRequireRole(t *testing.T) {
	member := models.Session{Token: "tok", Role: models.RoleMember}

	tests := []struct {
		name       string
		session    models.Session
		roles      []models.Role
		path       string
		accept     string
		wantStatus int
		wantLoc    string
	}{
		{
			name:       "no session redirects browser to login",
			path:       "/dashboard",
			wantStatus: http.StatusSeeOther,
			wantLoc:    LoginPath,
		},
		{
			name:       "no session on api answers 401",
			path:       "/api/v1/artworks",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong role redirects to unauthorized",
			session:    member,
			roles:      []models.Role{models.RoleAdmin},
			path:       "/admin",
			wantStatus: http.StatusSeeOther,
			wantLoc:    UnauthorizedPath,
		},
		{
			name:       "wrong role with json accept answers 403",
			session:    member,
			roles:      []models.Role{models.RoleAdmin},
			path:       "/admin",
			accept:     echo.MIMEApplicationJSON,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "allowed",
			session:    member,
			roles:      []models.Role{models.RoleAdmin, models.RoleMember},
			path:       "/projects",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set(echo.HeaderAccept, tt.accept)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := RequireRole(fixedSession(tt.session), tt.roles...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			assert.NoError(t, h(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestRequireSession_AllowsAnyRole(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := RequireSession(fixedSession(models.Session{Token: "t", Role: models.RoleVisitor}))(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
