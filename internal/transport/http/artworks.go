package http

import (
	"log/slog"
	"net/http"

	"artclub/internal/lib/logger/sl"
	"artclub/internal/transport/http/dto"
	"artclub/internal/view"

	"github.com/labstack/echo/v4"
)

// ListArtworks godoc
// @Summary Галерея работ
// @Description Загружает работы с учётом серверных фильтров, затем ищет, сортирует и режет на страницы.
// @Tags artworks
// @Produce json
// @Param search query string false "Поиск по названию"
// @Param category query string false "Категория" Enums(sketch, canvas, wallart, digital, photography)
// @Param status query string false "Статус модерации" Enums(pending, approved, rejected)
// @Param artist query int false "ID автора"
// @Param sort query string false "Сортировка" Enums(newest, oldest, title, likes)
// @Param page query int false "Страница, с 1"
// @Param per_page query int false "Размер страницы"
// @Success 200 {object} response.Response{data=object} "Страница и состояние среза"
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/artworks [get]
func (r *Routers) ListArtworks(c echo.Context) error {
	const op = "http.routers.ListArtworks"

	log := r.log.With(
		slog.String("op", op),
	)

	var p view.ArtworkParams
	if err := bindQuery(c, &p); err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)
	ctx := sess.Context(c.Request().Context())

	filters := dto.ArtworkFilters{Category: p.Category, Status: p.Status, ArtistID: p.ArtistID}
	if _, err := sess.Artworks.FetchAll(ctx, filters); err != nil {
		if !fetchFailed(err) {
			return r.fail(c, sess, err)
		}
		log.Warn("showing stale artworks", sl.Err(err))
	}

	st := sess.Store.Artworks.State()

	return success(c, http.StatusOK, newListView(st.Items, view.ArtworkQuery(p), st))
}

// FeaturedArtworks godoc
// @Summary Избранные работы для главной страницы
// @Tags artworks
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/artworks/featured [get]
func (r *Routers) FeaturedArtworks(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Artworks.FetchFeatured(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, sess.Store.Featured.State())
}

// LikedArtworks godoc
// @Summary Работы, которые понравились пользователю
// @Tags artworks
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/artworks/liked [get]
func (r *Routers) LikedArtworks(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Artworks.FetchLiked(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, sess.Store.Liked.State())
}

// ArtworkCategories godoc
// @Summary Число работ по категориям
// @Tags artworks
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/artworks/categories [get]
func (r *Routers) ArtworkCategories(c echo.Context) error {
	sess := r.current(c)

	if _, err := sess.Artworks.CategoryAnalytics(sess.Context(c.Request().Context())); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, newObjectView(sess.Store.Categories.State()))
}

// CreateArtwork godoc
// @Summary Загрузить работу
// @Description Работа попадает на модерацию со статусом pending.
// @Tags artworks
// @Accept mpfd,json
// @Produce json
// @Param title formData string true "Название"
// @Param description formData string false "Описание"
// @Param category formData string true "Категория"
// @Param image formData file false "Изображение"
// @Success 201 {object} response.Response{data=models.Artwork}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/artworks [post]
func (r *Routers) CreateArtwork(c echo.Context) error {
	req, closeFile, err := r.bindArtwork(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer closeFile()

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	created, err := sess.Artworks.Create(sess.Context(c.Request().Context()), req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusCreated, created)
}

// UpdateArtwork godoc
// @Summary Изменить работу
// @Tags artworks
// @Accept mpfd,json
// @Produce json
// @Param id path int true "ID работы"
// @Param title formData string true "Название"
// @Param description formData string false "Описание"
// @Param category formData string true "Категория"
// @Param image formData file false "Новое изображение"
// @Success 200 {object} response.Response{data=models.Artwork}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/artworks/{id} [put]
func (r *Routers) UpdateArtwork(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	req, closeFile, err := r.bindArtwork(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer closeFile()

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	updated, err := sess.Artworks.Update(sess.Context(c.Request().Context()), id, req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, updated)
}

func (r *Routers) bindArtwork(c echo.Context) (dto.ArtworkRequest, func(), error) {
	var req dto.ArtworkRequest

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

// DeleteArtwork godoc
// @Summary Удалить работу
// @Tags artworks
// @Param id path int true "ID работы"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/artworks/{id} [delete]
func (r *Routers) DeleteArtwork(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Artworks.Remove(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ApproveArtwork godoc
// @Summary Одобрить работу
// @Tags moderation
// @Param id path int true "ID работы"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /api/v1/artworks/{id}/approve [post]
func (r *Routers) ApproveArtwork(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)

	if err := sess.Artworks.Approve(sess.Context(c.Request().Context()), id); err != nil {
		return r.fail(c, sess, err)
	}

	art, _ := sess.Store.Artworks.Get(id)

	return success(c, http.StatusOK, art)
}

// RejectArtwork godoc
// @Summary Отклонить работу с комментарием
// @Tags moderation
// @Accept json
// @Param id path int true "ID работы"
// @Param request body dto.RejectArtworkRequest false "Комментарий автору"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /api/v1/artworks/{id}/reject [post]
func (r *Routers) RejectArtwork(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.RejectArtworkRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "")
	}

	sess := r.current(c)

	if err := sess.Artworks.Reject(sess.Context(c.Request().Context()), id, req.Feedback); err != nil {
		return r.fail(c, sess, err)
	}

	art, _ := sess.Store.Artworks.Get(id)

	return success(c, http.StatusOK, art)
}

// LikeArtwork godoc
// @Summary Поставить лайк
// @Tags artworks
// @Param id path int true "ID работы"
// @Success 200 {object} response.Response
// @Router /api/v1/artworks/{id}/like [post]
func (r *Routers) LikeArtwork(c echo.Context) error {
	return r.toggleLike(c, true)
}

// UnlikeArtwork godoc
// @Summary Убрать лайк
// @Tags artworks
// @Param id path int true "ID работы"
// @Success 200 {object} response.Response
// @Router /api/v1/artworks/{id}/like [delete]
func (r *Routers) UnlikeArtwork(c echo.Context) error {
	return r.toggleLike(c, false)
}

func (r *Routers) toggleLike(c echo.Context, like bool) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess := r.current(c)
	ctx := sess.Context(c.Request().Context())

	if like {
		err = sess.Artworks.Like(ctx, id)
	} else {
		err = sess.Artworks.Unlike(ctx, id)
	}
	if err != nil {
		return r.fail(c, sess, err)
	}

	art, _ := sess.Store.Artworks.Get(id)

	return success(c, http.StatusOK, art)
}
