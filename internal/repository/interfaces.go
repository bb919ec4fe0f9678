package repository

import (
	"context"
	"time"

	"artclub/internal/domain/models"
)

type SessionRepository interface {
	Save(ctx context.Context, key string, s models.Session, ttl time.Duration) error
	Get(ctx context.Context, key string) (models.Session, error)
	Delete(ctx context.Context, key string) error
	Touch(ctx context.Context, key string, ttl time.Duration) error
}
