package http

import (
	"log/slog"
	"net/http"

	"artclub/internal/domain/models"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/transport/http/dto"
	"artclub/internal/view"

	"github.com/labstack/echo/v4"
)

type notificationList struct {
	listView[models.Notification]
	Unread int `json:"unread"`
}

// ListNotifications godoc
// @Summary Уведомления
// @Tags notifications
// @Produce json
// @Param unread query bool false "Только непрочитанные"
// @Param type query string false "Тип" Enums(artwork_approved, event_update, project_invite, general)
// @Param page query int false "Страница, с 1"
// @Param per_page query int false "Размер страницы"
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/notifications [get]
func (r *Routers) ListNotifications(c echo.Context) error {
	const op = "http.routers.ListNotifications"

	var p view.NotificationParams
	if err := bindQuery(c, &p); err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if _, err := sess.Notifications.FetchAll(sess.Context(c.Request().Context())); err != nil {
		if !fetchFailed(err) {
			return r.fail(c, sess, err)
		}
		r.log.Warn("showing stale notifications", slog.String("op", op), sl.Err(err))
	}

	st := sess.Store.Notifications.State()

	return success(c, http.StatusOK, notificationList{
		listView: newListView(st.Items, view.NotificationQuery(p), st),
		Unread:   view.UnreadCount(st.Items),
	})
}

// CreateNotification godoc
// @Summary Разослать уведомление
// @Tags notifications
// @Accept json
// @Param request body dto.NotificationRequest true "Текст, тип и получатели"
// @Success 201 {object} response.Response{data=models.Notification}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/notifications [post]
func (r *Routers) CreateNotification(c echo.Context) error {
	var req dto.NotificationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "")
	}

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	created, err := sess.Notifications.Create(sess.Context(c.Request().Context()), req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusCreated, created)
}

// MarkNotificationRead godoc
// @Summary Отметить уведомление прочитанным
// @Tags notifications
// @Param id path int true "ID уведомления"
// @Success 200 {object} response.Response{data=models.Notification}
// @Router /api/v1/notifications/{id}/read [post]
func (r *Routers) MarkNotificationRead(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Notifications.MarkRead(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	n, _ := sess.Store.Notifications.Get(id)

	return success(c, http.StatusOK, n)
}

// DeleteNotification godoc
// @Summary Удалить уведомление
// @Tags notifications
// @Param id path int true "ID уведомления"
// @Success 204
// @Router /api/v1/notifications/{id} [delete]
func (r *Routers) DeleteNotification(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Notifications.Remove(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	return c.NoContent(http.StatusNoContent)
}
