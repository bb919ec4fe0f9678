package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"artclub/internal/client"
	"artclub/internal/domain/models"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/lib/validate"
	"artclub/internal/middleware"
	projectservice "artclub/internal/services/project_service"
	"artclub/internal/services/auth"
	"artclub/internal/session"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"
	"artclub/internal/transport/http/dto/response"
	"artclub/internal/view"

	"github.com/labstack/echo/v4"

	_ "artclub/docs"
)

// Sessions реестр сессий браузера
type Sessions interface {
	Get(ctx context.Context, id string) *session.Session
	Drop(id string)
	Rotate(ctx context.Context, oldID, newID string) (*session.Session, error)
}

type Routers struct {
	log      *slog.Logger
	sessions Sessions
	now      func() time.Time
}

func NewRouter(log *slog.Logger, sessions Sessions) *Routers {
	return &Routers{
		log:      log,
		sessions: sessions,
		now:      time.Now,
	}
}

const currentSessionKey = "artclub.session"

// current сессия запроса, один поиск в реестре на запрос
func (r *Routers) current(c echo.Context) *session.Session {
	if s, ok := c.Get(currentSessionKey).(*session.Session); ok {
		return s
	}
	s := r.sessions.Get(c.Request().Context(), middleware.SID(c))
	c.Set(currentSessionKey, s)
	return s
}

// Session источник авторизации для guard-мидлвари
func (r *Routers) Session(c echo.Context) models.Session {
	return r.current(c).Auth.Session()
}

// listView страница списка вместе с состоянием среза: при неудачной
// загрузке клиент видит прежние данные и ошибку
type listView[T any] struct {
	view.Page[T]
	Loading bool             `json:"loading"`
	Error   *store.ErrorInfo `json:"error,omitempty"`
}

func newListView[T store.Entity](items []T, q view.Query[T], st store.ListState[T]) listView[T] {
	return listView[T]{
		Page:    view.Apply(items, q),
		Loading: st.Loading,
		Error:   st.Error,
	}
}

// objectView одиночный объект среза с его состоянием
type objectView[T any] struct {
	Data    *T               `json:"data"`
	Loading bool             `json:"loading"`
	Error   *store.ErrorInfo `json:"error,omitempty"`
}

func newObjectView[T any](st store.ObjectState[T]) objectView[T] {
	return objectView[T]{Data: st.Data, Loading: st.Loading, Error: st.Error}
}

// fetchFailed решает, можно ли отдать прежние данные вместо ошибки
func fetchFailed(err error) bool {
	return err != nil && !client.IsKind(err, client.KindUnauthorized)
}

// fail переводит ошибку сервиса в ответ. 401 от API закрывает сессию.
func (r *Routers) fail(c echo.Context, sess *session.Session, err error) error {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		resp := response.ErrValidation
		resp.Fields = verr.Fields
		return c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, auth.ErrNotLoggedIn):
		resp := response.ErrAuthenticationFailed
		resp.Redirect = middleware.LoginPath
		return c.JSON(http.StatusUnauthorized, resp)
	case errors.Is(err, projectservice.ErrNotCreator):
		resp := response.ErrForbidden
		resp.Details = projectservice.ErrNotCreator.Error()
		return c.JSON(http.StatusForbidden, resp)
	case errors.Is(err, projectservice.ErrProjectCompleted):
		resp := response.ErrConflict
		resp.Details = projectservice.ErrProjectCompleted.Error()
		return c.JSON(http.StatusConflict, resp)
	case errors.Is(err, auth.ErrNoToken):
		return c.JSON(http.StatusBadGateway, response.ErrUpstream)
	}

	apiErr, ok := client.AsAPIError(err)
	if !ok {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return c.JSON(http.StatusBadGateway, response.ErrUpstream)
		}
		r.log.Error("unexpected error", slog.String("op", "http.routers.fail"), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	switch apiErr.Kind {
	case client.KindValidation:
		resp := response.ErrValidation
		resp.Details = apiErr.Message
		resp.Fields = apiErr.Fields
		return c.JSON(http.StatusBadRequest, resp)
	case client.KindUnauthorized:
		if apiErr.Status == http.StatusForbidden {
			resp := response.ErrForbidden
			resp.Details = apiErr.Message
			resp.Redirect = middleware.UnauthorizedPath
			return c.JSON(http.StatusForbidden, resp)
		}
		if sess != nil && sess.Auth.Session().Active() {
			// токен больше не принимается
			sess.Auth.Logout(c.Request().Context())
		}
		resp := response.ErrAuthenticationFailed
		resp.Details = apiErr.Message
		resp.Redirect = middleware.LoginPath
		return c.JSON(http.StatusUnauthorized, resp)
	case client.KindNotFound:
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case client.KindNetwork, client.KindServer:
		resp := response.ErrUpstream
		if apiErr.Message != "" {
			resp.Details = apiErr.Message
		}
		return c.JSON(http.StatusBadGateway, resp)
	}

	resp := response.ErrInternal
	resp.Details = apiErr.Message
	return c.JSON(http.StatusInternalServerError, resp)
}

func badRequest(c echo.Context, details string) error {
	resp := response.ErrInvalidRequestFormat
	if details != "" {
		resp.Details = details
	}
	return c.JSON(http.StatusBadRequest, resp)
}

func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func bindQuery(c echo.Context, dst any) error {
	return (&echo.DefaultBinder{}).BindQueryParams(c, dst)
}

// formUpload файл из multipart-формы; отсутствие файла не ошибка
func formUpload(c echo.Context, field string) (*dto.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	return &dto.Upload{Name: fh.Filename, Reader: f}, func() { _ = f.Close() }, nil
}

func success(c echo.Context, status int, data any) error {
	return c.JSON(status, response.SuccessResponse(data))
}
