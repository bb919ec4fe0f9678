package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artclub/internal/domain/models"
	"artclub/internal/storage"
	redisapp "artclub/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

type RedisSessionRepo struct {
	Client *redisapp.Client
}

func NewRedisSessionRepo(client *redisapp.Client) *RedisSessionRepo {
	return &RedisSessionRepo{Client: client}
}

func (r *RedisSessionRepo) Save(ctx context.Context, key string, s models.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("repository.RedisSessionRepo.Save: %w", err)
	}
	return r.Client.Set(ctx, sessionKey(key), data, ttl).Err()
}

func (r *RedisSessionRepo) Get(ctx context.Context, key string) (models.Session, error) {
	const op = "repository.RedisSessionRepo.Get"

	val, err := r.Client.Get(ctx, sessionKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, fmt.Errorf("%s: %w", op, storage.ErrSessionNotFound)
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var s models.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (r *RedisSessionRepo) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, sessionKey(key)).Err()
}

// Touch продлевает жизнь сессии при активности пользователя
func (r *RedisSessionRepo) Touch(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := r.Client.Expire(ctx, sessionKey(key), ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("repository.RedisSessionRepo.Touch: %w", storage.ErrSessionNotFound)
	}
	return nil
}

func sessionKey(key string) string {
	return "session:" + key
}
