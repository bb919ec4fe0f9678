package http

import (
	"log/slog"
	"net/http"
	"slices"

	"artclub/internal/lib/logger/sl"
	"artclub/internal/services/auth"
	"artclub/internal/transport/http/dto"
	"artclub/internal/view"

	"github.com/labstack/echo/v4"
)

// ListEvents godoc
// @Summary Мероприятия
// @Tags events
// @Produce json
// @Param search query string false "Поиск по названию и месту"
// @Param scope query string false "upcoming или completed"
// @Param sort query string false "Сортировка" Enums(date, newest, oldest, title)
// @Param page query int false "Страница, с 1"
// @Param per_page query int false "Размер страницы"
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/events [get]
func (r *Routers) ListEvents(c echo.Context) error {
	const op = "http.routers.ListEvents"

	var p view.EventParams
	if err := bindQuery(c, &p); err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if _, err := sess.Events.FetchAll(sess.Context(c.Request().Context())); err != nil {
		if !fetchFailed(err) {
			return r.fail(c, sess, err)
		}
		r.log.Warn("showing stale events", slog.String("op", op), sl.Err(err))
	}

	st := sess.Store.Events.State()

	return success(c, http.StatusOK, newListView(st.Items, view.EventQuery(p, r.now()), st))
}

// CreateEvent godoc
// @Summary Новое мероприятие
// @Tags events
// @Accept mpfd,json
// @Produce json
// @Param title formData string true "Название"
// @Param description formData string false "Описание"
// @Param location formData string true "Место"
// @Param date formData string true "Дата, YYYY-MM-DD"
// @Param event_cover formData file false "Обложка"
// @Success 201 {object} response.Response{data=models.Event}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/events [post]
func (r *Routers) CreateEvent(c echo.Context) error {
	req, closeFile, err := bindEvent(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer closeFile()

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	created, err := sess.Events.Create(sess.Context(c.Request().Context()), req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusCreated, created)
}

// UpdateEvent godoc
// @Summary Заменить мероприятие целиком
// @Tags events
// @Accept mpfd,json
// @Produce json
// @Param id path int true "ID мероприятия"
// @Success 200 {object} response.Response{data=models.Event}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/events/{id} [put]
func (r *Routers) UpdateEvent(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	req, closeFile, err := bindEvent(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer closeFile()

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	updated, err := sess.Events.Update(sess.Context(c.Request().Context()), id, req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, updated)
}

func bindEvent(c echo.Context) (dto.EventRequest, func(), error) {
	var req dto.EventRequest

	if err := c.Bind(&req); err != nil {
		return req, func() {}, err
	}

	cover, closeFile, err := formUpload(c, "event_cover")
	if err != nil {
		return req, closeFile, err
	}
	req.Cover = cover

	return req, closeFile, nil
}

// PatchEvent godoc
// @Summary Изменить отдельные поля мероприятия
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "ID мероприятия"
// @Param request body dto.EventPatch true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.Event}
// @Router /api/v1/events/{id} [patch]
func (r *Routers) PatchEvent(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.EventPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "")
	}

	sess := r.current(c)

	updated, err := sess.Events.Patch(sess.Context(c.Request().Context()), id, req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Удалить мероприятие
// @Tags events
// @Param id path int true "ID мероприятия"
// @Success 204
// @Router /api/v1/events/{id} [delete]
func (r *Routers) DeleteEvent(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Events.Remove(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AttendEvent godoc
// @Summary Записаться на мероприятие
// @Tags events
// @Param id path int true "ID мероприятия"
// @Success 200 {object} response.Response{data=models.Event}
// @Router /api/v1/events/{id}/attend [post]
func (r *Routers) AttendEvent(c echo.Context) error {
	return r.setAttendance(c, true)
}

// LeaveEvent godoc
// @Summary Отменить запись на мероприятие
// @Tags events
// @Param id path int true "ID мероприятия"
// @Success 200 {object} response.Response{data=models.Event}
// @Router /api/v1/events/{id}/attend [delete]
func (r *Routers) LeaveEvent(c echo.Context) error {
	return r.setAttendance(c, false)
}

func (r *Routers) setAttendance(c echo.Context, attend bool) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	user := sess.Auth.Session().User
	if user == nil {
		return r.fail(c, sess, auth.ErrNotLoggedIn)
	}

	ctx := sess.Context(c.Request().Context())

	event, found := sess.Store.Events.Get(id)
	if !found {
		if event, err = sess.Events.Get(ctx, id); err != nil {
			return r.fail(c, sess, err)
		}
	}

	attendees := slices.Clone(event.Attendees)
	has := slices.Contains(attendees, user.PK)
	switch {
	case attend && !has:
		attendees = append(attendees, user.PK)
	case !attend && has:
		attendees = slices.DeleteFunc(attendees, func(id int64) bool { return id == user.PK })
	default:
		return success(c, http.StatusOK, event)
	}

	if err := sess.Events.SetAttendees(ctx, id, attendees); err != nil {
		return r.fail(c, sess, err)
	}

	event, _ = sess.Store.Events.Get(id)

	return success(c, http.StatusOK, event)
}

// CompleteEvent godoc
// @Summary Отметить мероприятие завершённым
// @Tags events
// @Param id path int true "ID мероприятия"
// @Success 200 {object} response.Response{data=models.Event}
// @Router /api/v1/events/{id}/complete [post]
func (r *Routers) CompleteEvent(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Events.Complete(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	event, _ := sess.Store.Events.Get(id)

	return success(c, http.StatusOK, event)
}

// EventStats godoc
// @Summary Статистика мероприятий
// @Tags events
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/events/stats [get]
func (r *Routers) EventStats(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Events.Stats(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, newObjectView(sess.Store.EventStats.State()))
}
