package http

import (
	"log/slog"
	"net/http"

	"artclub/internal/domain/models"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/middleware"
	"artclub/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

// Login godoc
// @Summary Вход в клуб
// @Description Получает токен API, загружает профиль и открывает сессию браузера. Токен наружу не отдаётся.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.Credentials true "Email и пароль"
// @Success 200 {object} response.Response{data=store.AuthState} "Сессия открыта"
// @Failure 400 {object} response.ErrorResponse "Неверные данные"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /api/v1/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req models.Credentials

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return badRequest(c, "")
	}

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	if _, err := sess.Auth.Login(c.Request().Context(), req); err != nil {
		return r.fail(c, sess, err)
	}

	// id сессии меняется при входе, прежняя cookie перестаёт вести к авторизации
	_, err := middleware.RotateSID(c, func(oldID, newID string) error {
		rotated, err := r.sessions.Rotate(c.Request().Context(), oldID, newID)
		if err != nil {
			return err
		}
		c.Set(currentSessionKey, rotated)
		return nil
	})
	if err != nil {
		log.Warn("failed to rotate session id", sl.Err(err))
	}

	return success(c, http.StatusOK, sess.Store.Auth.State())
}

// Register godoc
// @Summary Регистрация
// @Description Создаёт неактивный аккаунт посетителя. Сессия не открывается.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} response.Response "Аккаунт создан"
// @Failure 400 {object} response.ErrorResponse "Ошибки полей формы"
// @Router /api/v1/auth/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.RegisterRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return badRequest(c, "")
	}

	sess := r.current(c)

	if err := c.Validate(req); err != nil {
		return r.fail(c, sess, err)
	}

	if err := sess.Auth.Register(c.Request().Context(), req); err != nil {
		return r.fail(c, sess, err)
	}

	return c.JSON(http.StatusCreated, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}{
		Status:  "success",
		Message: "Registration successful. An administrator will activate your account.",
	})
}

// Logout godoc
// @Summary Выход
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	sess := r.current(c)

	sess.Auth.Logout(c.Request().Context())
	r.sessions.Drop(sess.ID)

	return success(c, http.StatusOK, nil)
}

// CurrentSession godoc
// @Summary Текущая сессия
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=store.AuthState}
// @Router /api/v1/auth/session [get]
func (r *Routers) CurrentSession(c echo.Context) error {
	return success(c, http.StatusOK, r.current(c).Store.Auth.State())
}

// RequestPasswordReset godoc
// @Summary Письмо для сброса пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/auth/password/reset [post]
func (r *Routers) RequestPasswordReset(c echo.Context) error {
	var req dto.PasswordResetRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c, "")
	}

	sess := r.current(c)

	if err := sess.Auth.RequestPasswordReset(c.Request().Context(), req); err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, nil)
}

// ConfirmPasswordReset godoc
// @Summary Новый пароль по ссылке из письма
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetConfirmRequest true "uid, token и новый пароль дважды"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/auth/password/reset/confirm [post]
func (r *Routers) ConfirmPasswordReset(c echo.Context) error {
	var req dto.PasswordResetConfirmRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c, "")
	}

	sess := r.current(c)

	if err := sess.Auth.ConfirmPasswordReset(c.Request().Context(), req); err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, nil)
}

// Profile godoc
// @Summary Профиль текущего пользователя
// @Tags profile
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/profile [get]
func (r *Routers) Profile(c echo.Context) error {
	sess := r.current(c)
	ctx := sess.Context(c.Request().Context())

	if _, err := sess.Auth.Profile(ctx); err != nil && !fetchFailed(err) {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, newObjectView(sess.Store.Profile.State()))
}

// UpdateProfile godoc
// @Summary Изменить профиль
// @Tags profile
// @Accept json,mpfd
// @Produce json
// @Param first_name formData string false "Имя"
// @Param last_name formData string false "Фамилия"
// @Param email formData string false "Email"
// @Param profile_picture formData file false "Аватар"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/profile [put]
func (r *Routers) UpdateProfile(c echo.Context) error {
	const op = "http.routers.UpdateProfile"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ProfileRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return badRequest(c, "")
	}

	picture, closeFile, err := formUpload(c, "profile_picture")
	if err != nil {
		return badRequest(c, "invalid profile picture")
	}
	defer closeFile()
	req.ProfilePicture = picture

	sess := r.current(c)

	user, err := sess.Auth.UpdateProfile(sess.Context(c.Request().Context()), req)
	if err != nil {
		return r.fail(c, sess, err)
	}

	return success(c, http.StatusOK, user)
}
