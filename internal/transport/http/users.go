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

const topArtistsLimit = 3

// ListUsers godoc
// @Summary Участники клуба
// @Tags admin
// @Produce json
// @Param search query string false "Поиск по имени и email"
// @Param role query string false "Роль" Enums(admin, member, visitor)
// @Param active query bool false "Только активные или только неактивные"
// @Param sort query string false "name"
// @Param page query int false "Страница, с 1"
// @Param per_page query int false "Размер страницы"
// @Success 200 {object} response.Response{data=object}
// @Failure 403 {object} response.ErrorResponse
// @Router /api/v1/users [get]
func (r *Routers) ListUsers(c echo.Context) error {
	const op = "http.routers.ListUsers"

	var p view.UserParams
	if err := bindQuery(c, &p); err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if _, err := sess.Users.FetchAll(sess.Context(c.Request().Context())); err != nil {
		if !fetchFailed(err) {
			return r.fail(c, sess, err)
		}
		r.log.Warn("showing stale users", slog.String("op", op), sl.Err(err))
	}

	st := sess.Store.Users.State()

	return success(c, http.StatusOK, newListView(st.Items, view.UserQuery(p), st))
}

// UpdateUserRole godoc
// @Summary Сменить роль участника
// @Tags admin
// @Accept json
// @Param id path int true "ID пользователя"
// @Param request body dto.RoleRequest true "Новая роль"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/users/{id}/role [patch]
func (r *Routers) UpdateUserRole(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.RoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "")
	}

	sess := r.current(c)

	if err := sess.Users.UpdateRole(sess.Context(c.Request().Context()), id, req.Role); err != nil {
		return r.fail(c, sess, err)
	}

	user, _ := sess.Store.Users.Get(id)

	return success(c, http.StatusOK, user)
}

// ActivateUser godoc
// @Summary Активировать аккаунт
// @Tags admin
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/users/{id}/activate [post]
func (r *Routers) ActivateUser(c echo.Context) error {
	return r.setUserActive(c, true)
}

// DeactivateUser godoc
// @Summary Заблокировать аккаунт
// @Tags admin
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/users/{id}/deactivate [post]
func (r *Routers) DeactivateUser(c echo.Context) error {
	return r.setUserActive(c, false)
}

func (r *Routers) setUserActive(c echo.Context, active bool) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)
	ctx := sess.Context(c.Request().Context())

	if active {
		err = sess.Users.Activate(ctx, id)
	} else {
		err = sess.Users.Deactivate(ctx, id)
	}
	if err != nil {
		return r.fail(c, sess, err)
	}

	user, _ := sess.Store.Users.Get(id)

	return success(c, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Tags admin
// @Param id path int true "ID пользователя"
// @Success 204
// @Router /api/v1/users/{id} [delete]
func (r *Routers) DeleteUser(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Users.Remove(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ActivityLogs godoc
// @Summary Журнал действий
// @Tags admin
// @Produce json
// @Param search query string false "Поиск по пользователю и действию"
// @Param page query int false "Страница, с 1"
// @Param per_page query int false "Размер страницы"
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/activity-logs [get]
func (r *Routers) ActivityLogs(c echo.Context) error {
	var p view.ListParams
	if err := bindQuery(c, &p); err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if _, err := sess.Users.ActivityLogs(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	st := sess.Store.ActivityLogs.State()
	q := view.Query[models.ActivityLog]{
		Search:  p.Search,
		Fields:  func(l models.ActivityLog) []string { return []string{l.User, l.Action} },
		Compare: func(a, b models.ActivityLog) int { return b.Timestamp.Compare(a.Timestamp) },
		Page:    p.Page,
		PerPage: p.Limit(),
	}

	return success(c, http.StatusOK, newListView(st.Items, q, st))
}

// Analytics godoc
// @Summary Аналитика клуба
// @Description Загрузки по месяцам, роли и три самых активных автора.
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/analytics [get]
func (r *Routers) Analytics(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Users.Analytics(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	out := newObjectView(sess.Store.Analytics.State())
	if out.Data != nil {
		a := *out.Data
		a.TopArtists = view.TopArtists(a.TopArtists, topArtistsLimit)
		out.Data = &a
	}

	return success(c, http.StatusOK, out)
}

// MemberStats godoc
// @Summary Личная статистика участника
// @Tags profile
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/member-stats [get]
func (r *Routers) MemberStats(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Users.MemberStats(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, newObjectView(sess.Store.MemberStats.State()))
}

// Preferences godoc
// @Summary Настройки уведомлений
// @Tags profile
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/preferences [get]
func (r *Routers) Preferences(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Users.Preferences(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, newObjectView(sess.Store.Preferences.State()))
}

// UpdatePreferences godoc
// @Summary Изменить настройки уведомлений
// @Tags profile
// @Accept json
// @Param request body models.Preferences true "Тип уведомления -> включено"
// @Success 200 {object} response.Response{data=models.Preferences}
// @Router /api/v1/preferences [patch]
func (r *Routers) UpdatePreferences(c echo.Context) error {
	var prefs models.Preferences
	if err := c.Bind(&prefs); err != nil || len(prefs) == 0 {
		return badRequest(c, "expected an object of notification flags")
	}

	sess := r.current(c)

	saved, err := sess.Users.UpdatePreferences(sess.Context(c.Request().Context()), prefs)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, saved)
}
