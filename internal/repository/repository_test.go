package repository_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"artclub/internal/config"
	"artclub/internal/domain/models"
	"artclub/internal/repository"
	"artclub/internal/storage"
	redisapp "artclub/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testCtx = context.Background()
)

func testSession() models.Session {
	u := models.User{PK: 5, Email: "ben@example.com", FirstName: "Ben", Role: models.RoleAdmin, IsActive: true}
	return models.Session{Token: "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b", User: &u, Role: models.RoleAdmin}
}

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &redisapp.Client{Client: db}, mock
}

func setupRepo() (*repository.RedisSessionRepo, redismock.ClientMock) {
	db, mock := NewMockClient()
	return repository.NewRedisSessionRepo(db), mock
}

func TestRedisSessionRepo_Save(t *testing.T) {
	repo, mock := setupRepo()
	ttl := 24 * time.Hour

	data, err := json.Marshal(testSession())
	require.NoError(t, err)

	t.Run("successful save", func(t *testing.T) {
		mock.ExpectSet("session:abc", data, ttl).SetVal("OK")
		err := repo.Save(testCtx, "abc", testSession(), ttl)
		assert.NoError(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet("session:abc", data, ttl).SetErr(redis.ErrClosed)
		err := repo.Save(testCtx, "abc", testSession(), ttl)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepo_Get(t *testing.T) {
	repo, mock := setupRepo()

	data, err := json.Marshal(testSession())
	require.NoError(t, err)

	t.Run("session exists", func(t *testing.T) {
		mock.ExpectGet("session:abc").SetVal(string(data))
		got, err := repo.Get(testCtx, "abc")
		require.NoError(t, err)
		assert.Equal(t, testSession(), got)
	})

	t.Run("session missing", func(t *testing.T) {
		mock.ExpectGet("session:abc").RedisNil()
		_, err := repo.Get(testCtx, "abc")
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})

	t.Run("corrupted value", func(t *testing.T) {
		mock.ExpectGet("session:abc").SetVal("{not json")
		_, err := repo.Get(testCtx, "abc")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrSessionNotFound)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet("session:abc").SetErr(redis.ErrClosed)
		_, err := repo.Get(testCtx, "abc")
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepo_DeleteTouch(t *testing.T) {
	repo, mock := setupRepo()

	mock.ExpectDel("session:abc").SetVal(1)
	assert.NoError(t, repo.Delete(testCtx, "abc"))

	mock.ExpectExpire("session:abc", time.Hour).SetVal(true)
	assert.NoError(t, repo.Touch(testCtx, "abc", time.Hour))

	mock.ExpectExpire("session:gone", time.Hour).SetVal(false)
	assert.ErrorIs(t, repo.Touch(testCtx, "gone", time.Hour), storage.ErrSessionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemorySessionRepo(t *testing.T) {
	repo := repository.NewMemorySessionRepo(time.Hour, time.Minute)

	_, err := repo.Get(testCtx, "abc")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	require.NoError(t, repo.Save(testCtx, "abc", testSession(), 0))

	got, err := repo.Get(testCtx, "abc")
	require.NoError(t, err)
	assert.Equal(t, testSession(), got)

	require.NoError(t, repo.Touch(testCtx, "abc", 2*time.Hour))

	require.NoError(t, repo.Save(testCtx, "short", testSession(), 20*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := repo.Get(testCtx, "short")
		return err != nil
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, repo.Delete(testCtx, "abc"))
	_, err = repo.Get(testCtx, "abc")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Touch(testCtx, "abc", time.Hour), storage.ErrSessionNotFound)
}

func TestNewRepository_MemoryFallback(t *testing.T) {
	repo, err := repository.NewRepository(testCtx, slog.Default(), config.RedisConf{}, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	assert.IsType(t, &repository.MemorySessionRepo{}, repo.Sessions)
}

func setupRedis(t *testing.T) config.RedisConf {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = redisContainer.Terminate(ctx)
	})

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)

	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return config.RedisConf{RedisAddr: fmt.Sprintf("%s:%s", host, port.Port())}
}

func TestRedisSessionRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}

	cfg := setupRedis(t)

	repo, err := repository.NewRepository(testCtx, slog.Default(), cfg, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.IsType(t, &repository.RedisSessionRepo{}, repo.Sessions)

	require.NoError(t, repo.Sessions.Save(testCtx, "abc", testSession(), time.Minute))

	got, err := repo.Sessions.Get(testCtx, "abc")
	require.NoError(t, err)
	assert.Equal(t, testSession(), got)

	require.NoError(t, repo.Sessions.Touch(testCtx, "abc", time.Hour))
	require.NoError(t, repo.Sessions.Delete(testCtx, "abc"))

	_, err = repo.Sessions.Get(testCtx, "abc")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}
