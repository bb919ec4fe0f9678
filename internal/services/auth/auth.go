package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"artclub/internal/client"
	"artclub/internal/domain/models"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/lib/validate"
	"artclub/internal/storage"
	"artclub/internal/store"
	"artclub/internal/transport/http/dto"
)

var (
	ErrNoToken     = errors.New("no token received")
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNoSession   = errors.New("no saved session")
)

const (
	typeLogin         = store.SliceAuth + "/" + store.OpLogin
	typeRestore       = store.SliceAuth + "/" + store.OpRestore
	typeLogout        = store.SliceAuth + "/" + store.OpLogout
	typeRegister      = store.SliceAuth + "/" + store.OpRegister
	typeRefresh       = store.SliceAuth + "/" + store.OpRefresh
	typeProfile       = store.SliceProfile + "/fetch"
	typeUpdateProfile = store.SliceProfile + "/update"
)

// Auth вход, регистрация и профиль текущей сессии
type Auth struct {
	log      *slog.Logger
	api      client.API
	store    *store.AppStore
	validate *validate.Validator
	sessions SessionStore
	ttl      time.Duration

	mu  sync.RWMutex
	key string
}

// SessionStore долговременное хранилище сессии (Redis, память или файл)
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.3 --name=SessionStore
type SessionStore interface {
	Save(ctx context.Context, key string, s models.Session, ttl time.Duration) error
	Get(ctx context.Context, key string) (models.Session, error)
	Delete(ctx context.Context, key string) error
}

func New(
	log *slog.Logger,
	api client.API,
	st *store.AppStore,
	v *validate.Validator,
	sessions SessionStore,
	key string,
	ttl time.Duration,
) *Auth {
	return &Auth{
		log:      log,
		api:      api,
		store:    st,
		validate: v,
		sessions: sessions,
		key:      key,
		ttl:      ttl,
	}
}

// Login получает токен, затем профиль с этим токеном и сохраняет сессию
func (a *Auth) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", creds.Email),
	)

	log.Info("attempting to login user")

	if err := a.validate.Struct(creds); err != nil {
		log.Warn("invalid credentials form", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := store.Run(ctx, a.store.Store, typeLogin, func(ctx context.Context) (models.Session, error) {
		var resp models.LoginResponse
		if err := a.api.Post(client.WithoutToken(ctx), "auth/login/", creds, &resp); err != nil {
			return models.Session{}, err
		}
		if resp.Token == "" {
			return models.Session{}, ErrNoToken
		}

		var user models.User
		if err := a.api.Get(client.WithToken(ctx, resp.Token), "auth/user/", &user); err != nil {
			return models.Session{}, err
		}

		return models.Session{Token: resp.Token, User: &user, Role: user.Role}, nil
	})
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	a.persist(ctx, sess)

	log.Info("user logged in successfully", slog.String("role", string(sess.Role)))

	return sess, nil
}

// Register создаёт аккаунт. Сессия не открывается, аккаунт ждёт активации.
func (a *Auth) Register(ctx context.Context, req dto.RegisterRequest) error {
	const op = "auth.Register"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", req.Email),
	)

	log.Info("register user")

	if err := a.validate.Struct(req); err != nil {
		log.Warn("invalid registration form", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := store.Run(ctx, a.store.Store, typeRegister, func(ctx context.Context) (any, error) {
		return nil, a.api.Post(client.WithoutToken(ctx), "auth/registration/", req, nil)
	})
	if err != nil {
		log.Warn("registration failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered")

	return nil
}

// Logout очищает сессию и все срезы. Ошибка хранилища только логируется.
func (a *Auth) Logout(ctx context.Context) {
	const op = "auth.Logout"

	log := a.log.With(slog.String("op", op))

	if err := a.sessions.Delete(ctx, a.storageKey()); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		log.Error("failed to delete saved session", sl.Err(err))
	}

	a.store.Dispatch(store.Action{Type: typeLogout, Phase: store.PhaseFulfilled})
	a.store.Reset()

	log.Info("user logged out")
}

// Restore поднимает сохранённую сессию в срез auth
func (a *Auth) Restore(ctx context.Context) (models.Session, error) {
	const op = "auth.Restore"

	log := a.log.With(slog.String("op", op))

	sess, err := a.sessions.Get(ctx, a.storageKey())
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrNoSession)
		}
		log.Error("failed to read saved session", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if !sess.Active() {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrNoSession)
	}

	sess, _ = store.Run(ctx, a.store.Store, typeRestore, func(context.Context) (models.Session, error) {
		return sess, nil
	})

	log.Debug("session restored", slog.String("role", string(sess.Role)))

	return sess, nil
}

func (a *Auth) Session() models.Session {
	return a.store.Auth.Session()
}

// Profile перечитывает текущего пользователя и обновляет снимок в auth
func (a *Auth) Profile(ctx context.Context) (models.User, error) {
	const op = "auth.Profile"

	log := a.log.With(slog.String("op", op))

	if !a.Session().Active() {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}

	res, err := store.Run(ctx, a.store.Store, typeProfile, func(ctx context.Context) (store.Loaded[models.User], error) {
		var u models.User
		err := a.api.Get(ctx, "auth/user/", &u)
		return store.Loaded[models.User]{Value: u}, err
	})
	if err != nil {
		log.Error("failed to fetch profile", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	a.refresh(ctx, res.Value)

	return res.Value, nil
}

func (a *Auth) UpdateProfile(ctx context.Context, req dto.ProfileRequest) (models.User, error) {
	const op = "auth.UpdateProfile"

	log := a.log.With(slog.String("op", op))

	if !a.Session().Active() {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}

	if err := a.validate.Struct(req); err != nil {
		log.Warn("invalid profile form", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := store.Run(ctx, a.store.Store, typeUpdateProfile, func(ctx context.Context) (store.Loaded[models.User], error) {
		var u models.User
		err := a.api.Put(ctx, "auth/user/", req.Body(), &u)
		return store.Loaded[models.User]{Value: u}, err
	})
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	a.refresh(ctx, res.Value)

	log.Info("profile updated")

	return res.Value, nil
}

func (a *Auth) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error {
	const op = "auth.RequestPasswordReset"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", req.Email),
	)

	if err := a.validate.Struct(req); err != nil {
		log.Warn("invalid password reset form", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.api.Post(client.WithoutToken(ctx), "auth/password/reset/", req, nil); err != nil {
		log.Error("failed to request password reset", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *Auth) ConfirmPasswordReset(ctx context.Context, req dto.PasswordResetConfirmRequest) error {
	const op = "auth.ConfirmPasswordReset"

	log := a.log.With(slog.String("op", op))

	if err := a.validate.Struct(req); err != nil {
		log.Warn("invalid password reset form", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.api.Post(client.WithoutToken(ctx), "auth/password/reset/confirm/", req, nil); err != nil {
		log.Error("failed to confirm password reset", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password reset")

	return nil
}

func (a *Auth) refresh(ctx context.Context, u models.User) {
	a.store.Dispatch(store.Action{Type: typeRefresh, Phase: store.PhaseFulfilled, Payload: u})
	a.persist(ctx, a.Session())
}

func (a *Auth) persist(ctx context.Context, sess models.Session) {
	if !sess.Active() {
		return
	}
	if err := a.sessions.Save(ctx, a.storageKey(), sess, a.ttl); err != nil {
		a.log.Warn("failed to persist session", slog.String("op", "auth.persist"), sl.Err(err))
	}
}

func (a *Auth) storageKey() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.key
}

// Rekey переносит сохранённую сессию под новый ключ. Ошибка сохранения оставляет прежний ключ.
func (a *Auth) Rekey(ctx context.Context, key string) error {
	const op = "auth.Rekey"

	old := a.storageKey()

	if sess := a.store.Auth.Session(); sess.Active() {
		if err := a.sessions.Save(ctx, key, sess, a.ttl); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	a.mu.Lock()
	a.key = key
	a.mu.Unlock()

	if err := a.sessions.Delete(ctx, old); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		a.log.Warn("failed to delete old session", slog.String("op", op), sl.Err(err))
	}

	return nil
}
