package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"artclub/internal/config"
	redisapp "artclub/internal/storage/redis"
)

type Repository struct {
	redis    *redisapp.Client
	Sessions SessionRepository
}

// NewRepository выбирает Redis, если задан адрес, иначе держит сессии в памяти
func NewRepository(ctx context.Context, log *slog.Logger, cfg config.RedisConf, ttl time.Duration) (*Repository, error) {
	if cfg.RedisAddr == "" {
		log.Warn("redis is not configured, sessions are kept in memory")
		return &Repository{Sessions: NewMemorySessionRepo(ttl, 10*time.Minute)}, nil
	}

	client, err := redisapp.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("sessions are stored in redis", slog.String("addr", cfg.RedisAddr))

	return &Repository{
		redis:    client,
		Sessions: NewRedisSessionRepo(client),
	}, nil
}

func (r *Repository) Close() error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Close()
}
