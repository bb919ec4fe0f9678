package repository

import (
	"context"
	"fmt"
	"time"

	"artclub/internal/domain/models"
	"artclub/internal/storage"

	"github.com/patrickmn/go-cache"
)

// MemorySessionRepo сессии в памяти процесса, когда Redis не настроен
type MemorySessionRepo struct {
	c *cache.Cache
}

func NewMemorySessionRepo(defaultTTL, cleanup time.Duration) *MemorySessionRepo {
	return &MemorySessionRepo{c: cache.New(defaultTTL, cleanup)}
}

func (r *MemorySessionRepo) Save(_ context.Context, key string, s models.Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	r.c.Set(sessionKey(key), s, ttl)
	return nil
}

func (r *MemorySessionRepo) Get(_ context.Context, key string) (models.Session, error) {
	v, ok := r.c.Get(sessionKey(key))
	if !ok {
		return models.Session{}, fmt.Errorf("repository.MemorySessionRepo.Get: %w", storage.ErrSessionNotFound)
	}
	return v.(models.Session), nil
}

func (r *MemorySessionRepo) Delete(_ context.Context, key string) error {
	r.c.Delete(sessionKey(key))
	return nil
}

func (r *MemorySessionRepo) Touch(_ context.Context, key string, ttl time.Duration) error {
	v, exp, ok := r.c.GetWithExpiration(sessionKey(key))
	if !ok {
		return fmt.Errorf("repository.MemorySessionRepo.Touch: %w", storage.ErrSessionNotFound)
	}
	if exp.IsZero() {
		return nil
	}
	r.c.Set(sessionKey(key), v, ttl)
	return nil
}
