package http

import (
	"log/slog"
	"net/http"

	"artclub/internal/lib/logger/sl"
	"artclub/internal/transport/http/dto"
	"artclub/internal/view"

	"github.com/labstack/echo/v4"
)

// ListProjects godoc
// @Summary Совместные проекты
// @Tags projects
// @Produce json
// @Param search query string false "Поиск по названию и описанию"
// @Param completed query bool false "Только завершённые или только текущие"
// @Param member query int false "Проекты участника"
// @Param sort query string false "Сортировка" Enums(title, date, newest, oldest)
// @Param page query int false "Страница, с 1"
// @Param per_page query int false "Размер страницы"
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/projects [get]
func (r *Routers) ListProjects(c echo.Context) error {
	const op = "http.routers.ListProjects"

	var p view.ProjectParams
	if err := bindQuery(c, &p); err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if _, err := sess.Projects.FetchAll(sess.Context(c.Request().Context())); err != nil {
		if !fetchFailed(err) {
			return r.fail(c, sess, err)
		}
		r.log.Warn("showing stale projects", slog.String("op", op), sl.Err(err))
	}

	st := sess.Store.Projects.State()

	return success(c, http.StatusOK, newListView(st.Items, view.ProjectQuery(p), st))
}

// GetProject godoc
// @Summary Проект с историей обновлений
// @Tags projects
// @Produce json
// @Param id path int true "ID проекта"
// @Success 200 {object} response.Response{data=models.Project}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/projects/{id} [get]
func (r *Routers) GetProject(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	project, err := sess.Projects.Get(sess.Context(c.Request().Context()), id)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, project)
}

// CreateProject godoc
// @Summary Новый проект
// @Tags projects
// @Accept mpfd,json
// @Produce json
// @Param title formData string true "Название"
// @Param description formData string true "Описание"
// @Param start_date formData string true "Начало, YYYY-MM-DD"
// @Param end_date formData string false "Окончание, YYYY-MM-DD"
// @Param members formData []int false "Участники"
// @Param image formData file false "Обложка"
// @Success 201 {object} response.Response{data=models.Project}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/projects [post]
func (r *Routers) CreateProject(c echo.Context) error {
	req, closeFile, err := bindProject(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer closeFile()

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	created, err := sess.Projects.Create(sess.Context(c.Request().Context()), req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusCreated, created)
}

// UpdateProject godoc
// @Summary Изменить проект
// @Description id берётся только из пути.
// @Tags projects
// @Accept mpfd,json
// @Produce json
// @Param id path int true "ID проекта"
// @Success 200 {object} response.Response{data=models.Project}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/projects/{id} [patch]
func (r *Routers) UpdateProject(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	req, closeFile, err := bindProject(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer closeFile()

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	updated, err := sess.Projects.Update(sess.Context(c.Request().Context()), id, req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, updated)
}

func bindProject(c echo.Context) (dto.ProjectRequest, func(), error) {
	var req dto.ProjectRequest

	if err := c.Bind(&req); err != nil {
		return req, func() {}, err
	}

	image, closeFile, err := formUpload(c, "image")
	if err != nil {
		return req, closeFile, err
	}
	req.Image = image

	return req, closeFile, nil
}

// DeleteProject godoc
// @Summary Удалить проект
// @Tags projects
// @Param id path int true "ID проекта"
// @Success 204
// @Router /api/v1/projects/{id} [delete]
func (r *Routers) DeleteProject(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Projects.Remove(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddProjectUpdate godoc
// @Summary Запись о ходе работы
// @Description Доступно только автору проекта, пока проект не завершён.
// @Tags projects
// @Accept mpfd,json
// @Produce json
// @Param id path int true "ID проекта"
// @Param description formData string true "Что сделано"
// @Param image formData file false "Фото"
// @Success 201 {object} response.Response{data=models.ProjectUpdate}
// @Failure 403 {object} response.ErrorResponse "Не автор проекта"
// @Failure 409 {object} response.ErrorResponse "Проект завершён"
// @Router /api/v1/projects/{id}/updates [post]
func (r *Routers) AddProjectUpdate(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.ProjectUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "")
	}

	image, closeFile, err := formUpload(c, "image")
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer closeFile()
	req.Image = image

	sess := r.current(c)

	entry, err := sess.Projects.AddUpdate(sess.Context(c.Request().Context()), id, req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusCreated, entry)
}

// CompleteProject godoc
// @Summary Завершить проект
// @Tags projects
// @Param id path int true "ID проекта"
// @Success 200 {object} response.Response{data=models.Project}
// @Router /api/v1/projects/{id}/complete [post]
func (r *Routers) CompleteProject(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Projects.Complete(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	project, _ := sess.Store.Projects.Get(id)

	return success(c, http.StatusOK, project)
}

// ProjectStats godoc
// @Summary Статистика проектов
// @Tags projects
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/projects/stats [get]
func (r *Routers) ProjectStats(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Projects.Stats(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, newObjectView(sess.Store.ProjectStats.State()))
}
