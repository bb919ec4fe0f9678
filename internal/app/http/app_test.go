package httpapp_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	httpapp "artclub/internal/app/http"
	"artclub/internal/client"
	"artclub/internal/domain/models"
	"artclub/internal/lib/validate"
	"artclub/internal/middleware"
	"artclub/internal/repository"
	"artclub/internal/session"
	"artclub/internal/storage"
	httprouters "artclub/internal/transport/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *httpapp.Server
	registry *session.Registry
	repo     *repository.MemorySessionRepo
}

func setup(t *testing.T) fixture {
	t.Helper()
	return setupWithAPI(t, "http://127.0.0.1:1/api/")
}

func setupWithAPI(t *testing.T, apiURL string) fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	api, err := client.New(log, client.Options{BaseURL: apiURL})
	require.NoError(t, err)

	v := validate.New()
	repo := repository.NewMemorySessionRepo(time.Hour, time.Minute)
	registry := session.NewRegistry(log, api, repo, v, time.Hour, time.Minute)

	srv := httpapp.New(log, v, httpapp.Options{
		Port:          "0",
		SessionName:   "session",
		SessionSecret: "test-secret",
		SessionMaxAge: 3600,
	}, httprouters.NewRouter(log, registry))
	srv.BuildRouters()

	return fixture{server: srv, registry: registry, repo: repo}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.Echo().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestGuards_Anonymous(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"dashboard", http.MethodGet, "/api/v1/dashboard", http.StatusUnauthorized},
		{"artworks", http.MethodGet, "/api/v1/artworks", http.StatusUnauthorized},
		{"users", http.MethodGet, "/api/v1/users", http.StatusUnauthorized},
		{"analytics", http.MethodGet, "/api/v1/analytics", http.StatusUnauthorized},
		{"session is public", http.MethodGet, "/api/v1/auth/session", http.StatusOK},
		{"state is public", http.MethodGet, "/api/v1/state", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, middleware.LoginPath, body["redirect"])
			}
		})
	}
}

func TestGuards_RoleFromRestoredSession(t *testing.T) {
	f := setup(t)

	e := f.server.Echo()
	e.GET("/test/sid", func(c echo.Context) error {
		return c.String(http.StatusOK, middleware.SID(c))
	})

	// первый запрос выдаёт cookie с id сессии
	rec := f.do(httptest.NewRequest(http.MethodGet, "/test/sid", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	sid := rec.Body.String()
	require.NotEmpty(t, sid)

	member := models.User{PK: 3, Email: "member@club.test", Role: models.RoleMember, IsActive: true}
	require.NoError(t, f.repo.Save(context.Background(), sid, models.Session{
		Token: "tok", User: &member, Role: models.RoleMember,
	}, time.Hour))

	withCookie := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		return f.do(req)
	}

	rec = withCookie("/test/sid")
	assert.Equal(t, sid, rec.Body.String(), "cookie keeps the same session id")

	rec = withCookie("/api/v1/users")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, middleware.UnauthorizedPath, body["redirect"])

	// API недоступен: список отдаётся пустым вместе с ошибкой
	rec = withCookie("/api/v1/artworks")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"network"`)
}

func TestLogin_RotatesSessionID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token": "tok"}`))
	})
	mux.HandleFunc("GET /api/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pk": 1, "email": "admin@club.test", "role": "admin", "is_active": true}`))
	})
	mux.HandleFunc("GET /api/users/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	api := httptest.NewServer(mux)
	t.Cleanup(api.Close)

	f := setupWithAPI(t, api.URL+"/api/")
	f.server.Echo().GET("/test/sid", func(c echo.Context) error {
		return c.String(http.StatusOK, middleware.SID(c))
	})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/test/sid", nil))
	before := sessionCookie(t, rec)
	oldSID := rec.Body.String()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email": "admin@club.test", "password": "secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(before)
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	after := sessionCookie(t, rec)

	with := func(cookie *http.Cookie, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		return f.do(req)
	}

	newSID := with(after, "/test/sid").Body.String()
	assert.NotEqual(t, oldSID, newSID)

	assert.Equal(t, http.StatusOK, with(after, "/api/v1/users").Code)
	assert.Equal(t, http.StatusUnauthorized, with(before, "/api/v1/users").Code, "old cookie must not carry the login")

	_, err := f.repo.Get(context.Background(), oldSID)
	assert.True(t, errors.Is(err, storage.ErrSessionNotFound))
	saved, err := f.repo.Get(context.Background(), newSID)
	require.NoError(t, err)
	assert.Equal(t, "tok", saved.Token)
}

func TestGuards_BrowserRedirect(t *testing.T) {
	f := setup(t)

	f.server.Echo().GET("/gallery", func(c echo.Context) error {
		return c.String(http.StatusOK, "gallery")
	}, middleware.RequireSession(func(c echo.Context) models.Session { return models.Session{} }))

	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	req.Header.Set(echo.HeaderAccept, "text/html")
	rec := f.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get(echo.HeaderLocation))
}

func TestMetricsAndDocs(t *testing.T) {
	f := setup(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "artclub_")

	rec = f.do(httptest.NewRequest(http.MethodGet, "/swag/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/artworks")
}
