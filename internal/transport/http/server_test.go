package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"artclub/internal/client"
	"artclub/internal/domain/models"
	"artclub/internal/lib/validate"
	"artclub/internal/middleware"
	"artclub/internal/repository"
	"artclub/internal/session"
	httprouters "artclub/internal/transport/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

const (
	testToken = "tok-member"
	testSID   = "2f1c9a4e-0d55-4c8e-9a51-7b8f0c3e6a10"
)

type testValidator struct {
	v *validate.Validator
}

func (t *testValidator) Validate(i interface{}) error {
	return t.v.Struct(i)
}

// fakeAPI DRF-подобный сервер: ответы задаются тестом по "METHOD path"
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  map[string]int
}

func (f *fakeAPI) handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = h
}

func (f *fakeAPI) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path

	f.mu.Lock()
	h, ok := f.routes[route]
	f.calls[route]++
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		return
	}
	h(w, r)
}

func reply(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

type HandlersSuite struct {
	suite.Suite

	api      *fakeAPI
	server   *httptest.Server
	repo     *repository.MemorySessionRepo
	registry *session.Registry
	routers  *httprouters.Routers
	echo     *echo.Echo
}

func (s *HandlersSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	s.api = &fakeAPI{routes: map[string]http.HandlerFunc{}, calls: map[string]int{}}
	s.server = httptest.NewServer(s.api)

	api, err := client.New(log, client.Options{BaseURL: s.server.URL + "/api/"})
	s.Require().NoError(err)

	v := validate.New()

	s.repo = repository.NewMemorySessionRepo(time.Hour, time.Minute)
	s.registry = session.NewRegistry(log, api, s.repo, v, time.Hour, time.Minute)
	s.routers = httprouters.NewRouter(log, s.registry)

	s.echo = echo.New()
	s.echo.Validator = &testValidator{v: v}
}

func (s *HandlersSuite) TearDownTest() {
	s.server.Close()
}

func (s *HandlersSuite) signIn(role models.Role) {
	u := models.User{PK: 7, Email: "mira@club.test", FirstName: "Mira", Role: role, IsActive: true}
	s.Require().NoError(s.repo.Save(context.Background(), testSID, models.Session{
		Token: testToken,
		User:  &u,
		Role:  role,
	}, time.Hour))
}

func (s *HandlersSuite) call(method, target, body string, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	middleware.WithSID(c, testSID)

	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}

	s.Require().NoError(h(c))

	return rec
}

func (s *HandlersSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *HandlersSuite) TestListArtworks_SearchAndPage() {
	s.signIn(models.RoleMember)
	s.api.handle("GET /api/artwork/", reply(http.StatusOK, map[string]any{
		"next": nil,
		"results": []map[string]any{
			{"id": 1, "title": "Harbour at dusk", "category": "canvas", "artist": 7, "approval_status": "approved"},
			{"id": 2, "title": "Dunes", "category": "sketch", "artist": 7, "approval_status": "approved"},
			{"id": 3, "title": "harbour study", "category": "sketch", "artist": 8, "approval_status": "pending"},
		},
	}))

	rec := s.call(http.MethodGet, "/api/v1/artworks?search=HARBOUR&per_page=1&page=2", "", s.routers.ListArtworks)

	s.Equal(http.StatusOK, rec.Code)

	data := s.decode(rec)["data"].(map[string]any)
	s.EqualValues(2, data["total"])
	s.EqualValues(2, data["page"])
	items := data["items"].([]any)
	s.Len(items, 1)
	s.Equal("harbour study", items[0].(map[string]any)["title"])
}

func (s *HandlersSuite) TestListArtworks_StaleOnFailure() {
	s.signIn(models.RoleMember)
	s.api.handle("GET /api/artwork/", reply(http.StatusOK, []map[string]any{
		{"id": 1, "title": "Harbour", "category": "canvas", "artist": 7, "approval_status": "approved"},
	}))

	rec := s.call(http.MethodGet, "/api/v1/artworks", "", s.routers.ListArtworks)
	s.Require().Equal(http.StatusOK, rec.Code)

	s.api.handle("GET /api/artwork/", reply(http.StatusInternalServerError, map[string]string{"detail": "boom"}))

	rec = s.call(http.MethodGet, "/api/v1/artworks", "", s.routers.ListArtworks)

	s.Equal(http.StatusOK, rec.Code)
	data := s.decode(rec)["data"].(map[string]any)
	s.Len(data["items"], 1)
	s.Equal("server", data["error"].(map[string]any)["kind"])
	s.Equal(false, data["loading"])
}

func (s *HandlersSuite) TestUnauthorizedFromAPI_LogsOut() {
	s.signIn(models.RoleMember)
	s.api.handle("GET /api/events/", reply(http.StatusUnauthorized, map[string]string{"detail": "Invalid token."}))

	rec := s.call(http.MethodGet, "/api/v1/events", "", s.routers.ListEvents)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(middleware.LoginPath, s.decode(rec)["redirect"])

	s.False(s.registry.Get(context.Background(), testSID).Auth.Session().Active())

	_, err := s.repo.Get(context.Background(), testSID)
	s.Error(err)
}

func (s *HandlersSuite) TestCreateProject_InvalidFormSkipsAPI() {
	s.signIn(models.RoleMember)

	rec := s.call(http.MethodPost, "/api/v1/projects", `{"title":"Mural","start_date":"01/02/2025"}`, s.routers.CreateProject)

	s.Equal(http.StatusBadRequest, rec.Code)
	fields := s.decode(rec)["fields"].(map[string]any)
	s.Contains(fields, "description")
	s.Contains(fields, "start_date")
	s.Zero(s.api.count("POST /api/projects/"))
}

func (s *HandlersSuite) TestAddProjectUpdate_OnlyCreator() {
	s.signIn(models.RoleMember)
	s.api.handle("GET /api/projects/", reply(http.StatusOK, []map[string]any{
		{"id": 4, "title": "Mural", "creator": 99, "start_date": "2025-03-01"},
	}))

	s.call(http.MethodGet, "/api/v1/projects", "", s.routers.ListProjects)

	rec := s.call(http.MethodPost, "/api/v1/projects/4/updates", `{"description":"first layer done"}`,
		s.routers.AddProjectUpdate, "id", "4")

	s.Equal(http.StatusForbidden, rec.Code)
	s.Zero(s.api.count("POST /api/projects/4/add-update/"))
}

func (s *HandlersSuite) TestAttendEvent() {
	s.signIn(models.RoleMember)
	s.api.handle("GET /api/events/", reply(http.StatusOK, []map[string]any{
		{"id": 5, "title": "Life drawing", "date": "2030-01-10", "attendees": []int{3}},
	}))
	s.api.handle("PATCH /api/events/5/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string][]int64
		_ = json.NewDecoder(r.Body).Decode(&body)
		reply(http.StatusOK, map[string]any{"id": 5, "title": "Life drawing", "date": "2030-01-10", "attendees": body["attendees"]})(w, r)
	})

	s.call(http.MethodGet, "/api/v1/events", "", s.routers.ListEvents)

	rec := s.call(http.MethodPost, "/api/v1/events/5/attend", "", s.routers.AttendEvent, "id", "5")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Zero(s.api.count("GET /api/events/5/"))

	ev, ok := s.registry.Get(context.Background(), testSID).Store.Events.Get(5)
	s.Require().True(ok)
	s.ElementsMatch([]int64{3, 7}, ev.Attendees)
}

func (s *HandlersSuite) TestAttendEvent_LoadsMissingEvent() {
	s.signIn(models.RoleMember)
	s.api.handle("GET /api/events/5/", reply(http.StatusOK, map[string]any{
		"id": 5, "title": "Life drawing", "date": "2030-01-10", "attendees": []int{3},
	}))
	s.api.handle("PATCH /api/events/5/", reply(http.StatusOK, map[string]any{}))

	rec := s.call(http.MethodPost, "/api/v1/events/5/attend", "", s.routers.AttendEvent, "id", "5")

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(1, s.api.count("GET /api/events/5/"))
	s.Equal(1, s.api.count("PATCH /api/events/5/"))

	ev, ok := s.registry.Get(context.Background(), testSID).Store.Events.Get(5)
	s.Require().True(ok)
	s.ElementsMatch([]int64{3, 7}, ev.Attendees)
}

func (s *HandlersSuite) TestLeaveEvent_UnknownEvent() {
	s.signIn(models.RoleMember)

	rec := s.call(http.MethodDelete, "/api/v1/events/9/attend", "", s.routers.LeaveEvent, "id", "9")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(1, s.api.count("GET /api/events/9/"))
	s.Zero(s.api.count("PATCH /api/events/9/"))
}

func (s *HandlersSuite) TestDashboard_PartialFailure() {
	s.signIn(models.RoleAdmin)
	s.api.handle("GET /api/artwork/", reply(http.StatusOK, []map[string]any{
		{"id": 1, "title": "Harbour", "category": "canvas", "artist": 7, "approval_status": "pending"},
		{"id": 2, "title": "Dunes", "category": "sketch", "artist": 7, "approval_status": "approved"},
	}))
	s.api.handle("GET /api/events/", reply(http.StatusBadGateway, map[string]string{"detail": "upstream"}))
	s.api.handle("GET /api/projects/", reply(http.StatusOK, []map[string]any{
		{"id": 4, "title": "Mural", "creator": 7, "is_completed": false},
		{"id": 5, "title": "Zine", "creator": 7, "is_completed": true},
	}))

	rec := s.call(http.MethodGet, "/api/v1/dashboard", "", s.routers.Dashboard)

	s.Require().Equal(http.StatusOK, rec.Code)
	data := s.decode(rec)["data"].(map[string]any)
	s.EqualValues(1, data["pending_artworks"])
	s.Len(data["recent_artworks"], 1)
	s.Len(data["active_projects"], 1)
	s.Empty(data["upcoming_events"])

	errs := data["errors"].(map[string]any)
	s.Contains(errs, "events")
	s.NotContains(errs, "artworks")
}

func (s *HandlersSuite) TestNotifications_UnreadAndMarkRead() {
	s.signIn(models.RoleVisitor)
	s.api.handle("GET /api/notifications/", reply(http.StatusOK, []map[string]any{
		{"id": 1, "message": "Welcome", "notification_type": "general", "read": true},
		{"id": 2, "message": "Artwork approved", "notification_type": "artwork_approved", "read": false},
	}))
	s.api.handle("PATCH /api/notifications/2/mark_as_read/", reply(http.StatusOK, map[string]string{"status": "ok"}))

	rec := s.call(http.MethodGet, "/api/v1/notifications?unread=true", "", s.routers.ListNotifications)
	s.Require().Equal(http.StatusOK, rec.Code)
	data := s.decode(rec)["data"].(map[string]any)
	s.EqualValues(1, data["unread"])
	s.Len(data["items"], 1)

	rec = s.call(http.MethodPost, "/api/v1/notifications/2/read", "", s.routers.MarkNotificationRead, "id", "2")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(true, s.decode(rec)["data"].(map[string]any)["read"])
}

func (s *HandlersSuite) TestLogin_InvalidForm() {
	rec := s.call(http.MethodPost, "/api/v1/auth/login", `{"email":"nope","password":""}`, s.routers.Login)

	s.Equal(http.StatusBadRequest, rec.Code)
	fields := s.decode(rec)["fields"].(map[string]any)
	s.Contains(fields, "email")
	s.Contains(fields, "password")
	s.Zero(s.api.count("POST /api/auth/login/"))
}

func (s *HandlersSuite) TestState_HidesToken() {
	s.signIn(models.RoleMember)

	rec := s.call(http.MethodGet, "/api/v1/state", "", s.routers.State)

	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), testToken)
	s.Contains(s.decode(rec)["data"], "artworks")
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}
