package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"artclub/internal/client"
	"artclub/internal/lib/logger/sl"
	"artclub/internal/lib/validate"
	"artclub/internal/metrics"
	"artclub/internal/repository"
	artworkservice "artclub/internal/services/artwork_service"
	"artclub/internal/services/auth"
	eventservice "artclub/internal/services/event_service"
	notificationservice "artclub/internal/services/notification_service"
	projectservice "artclub/internal/services/project_service"
	userservice "artclub/internal/services/user_service"
	"artclub/internal/store"

	"github.com/patrickmn/go-cache"
)

// Session состояние одной вкладки браузера: своё хранилище и сервисы над ним
type Session struct {
	ID    string
	Store *store.AppStore

	Auth          *auth.Auth
	Artworks      *artworkservice.ArtworkService
	Events        *eventservice.EventService
	Projects      *projectservice.ProjectService
	Users         *userservice.UserService
	Notifications *notificationservice.NotificationService
}

// Context исходящий контекст с токеном этой сессии
func (s *Session) Context(ctx context.Context) context.Context {
	return s.Store.Context(ctx)
}

// Registry держит живые сессии в памяти и вытесняет неактивные
type Registry struct {
	log      *slog.Logger
	api      client.API
	repo     repository.SessionRepository
	validate *validate.Validator
	ttl      time.Duration

	mu       sync.Mutex
	sessions *cache.Cache
}

func NewRegistry(
	log *slog.Logger,
	api client.API,
	repo repository.SessionRepository,
	v *validate.Validator,
	ttl, idle time.Duration,
) *Registry {
	r := &Registry{
		log:      log,
		api:      api,
		repo:     repo,
		validate: v,
		ttl:      ttl,
		sessions: cache.New(idle, cleanupInterval(idle)),
	}

	r.sessions.OnEvicted(func(id string, _ interface{}) {
		metrics.ActiveSessions.Dec()
		r.log.Debug("session evicted", slog.String("session", short(id)))
	})

	return r
}

func cleanupInterval(idle time.Duration) time.Duration {
	if idle <= 0 {
		return time.Minute
	}
	if half := idle / 2; half < time.Minute {
		return half
	}
	return time.Minute
}

// Get возвращает сессию по id; новая поднимает сохранённую авторизацию
func (r *Registry) Get(ctx context.Context, id string) *Session {
	const op = "session.Registry.Get"

	if s, ok := r.lookup(id); ok {
		return s
	}

	log := r.log.With(slog.String("session", short(id)))

	s := r.build(log, id)

	if _, err := s.Auth.Restore(ctx); err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			log.Warn("failed to restore session", slog.String("op", op), sl.Err(err))
		}
	} else if err := r.repo.Touch(ctx, id, r.ttl); err != nil {
		log.Warn("failed to extend session", slog.String("op", op), sl.Err(err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// параллельный запрос той же вкладки мог успеть раньше
	if v, ok := r.sessions.Get(id); ok {
		return v.(*Session)
	}

	// просроченная, но ещё не вычищенная запись уходит через OnEvicted
	r.sessions.Delete(id)
	r.sessions.SetDefault(id, s)
	metrics.ActiveSessions.Inc()

	return s
}

// Rotate переносит сессию под новый id; старый id больше не ведёт к ней
func (r *Registry) Rotate(ctx context.Context, oldID, newID string) (*Session, error) {
	const op = "session.Registry.Rotate"

	s := r.Get(ctx, oldID)

	if err := s.Auth.Rekey(ctx, newID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions.Delete(oldID)
	r.sessions.Delete(newID)
	s.ID = newID
	r.sessions.SetDefault(newID, s)
	metrics.ActiveSessions.Inc()

	r.log.Debug("session rotated", slog.String("from", short(oldID)), slog.String("to", short(newID)))

	return s, nil
}

func (r *Registry) lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, false
	}

	s := v.(*Session)
	r.sessions.SetDefault(id, s)

	return s, true
}

func (r *Registry) build(log *slog.Logger, id string) *Session {
	st := store.NewAppStore(log)

	return &Session{
		ID:            id,
		Store:         st,
		Auth:          auth.New(log, r.api, st, r.validate, r.repo, id, r.ttl),
		Artworks:      artworkservice.NewArtworkService(log, r.api, st, r.validate),
		Events:        eventservice.NewEventService(log, r.api, st, r.validate),
		Projects:      projectservice.NewProjectService(log, r.api, st, r.validate),
		Users:         userservice.NewUserService(log, r.api, st, r.validate),
		Notifications: notificationservice.NewNotificationService(log, r.api, st, r.validate),
	}
}

// Drop забывает сессию в памяти; сохранённая авторизация не трогается
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions.Delete(id)
}

func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
