package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"artclub/internal/domain/models"
	"artclub/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStore(t *testing.T) *FileSessionStore {
	t.Helper()

	fs, err := NewFileSessionStore(filepath.Join(t.TempDir(), "sessions"))
	require.NoError(t, err)

	return fs
}

func testSession() models.Session {
	u := models.User{PK: 3, Email: "ana@example.com", Role: models.RoleMember}
	return models.Session{Token: "tok-3", User: &u, Role: models.RoleMember}
}

func TestFileSessionStore_SaveGet(t *testing.T) {
	fs := setupFileStore(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, fs.Save(ctx, "default", testSession(), time.Hour))

		got, err := fs.Get(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, testSession(), got)
	})

	t.Run("file is private", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}
		info, err := os.Stat(filepath.Join(fs.Dir(), "default.json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("overwrite", func(t *testing.T) {
		next := testSession()
		next.Token = "tok-4"
		require.NoError(t, fs.Save(ctx, "default", next, 0))

		got, err := fs.Get(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, "tok-4", got.Token)

		entries, err := os.ReadDir(fs.Dir())
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := fs.Get(ctx, "other")
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})
}

func TestFileSessionStore_Expiry(t *testing.T) {
	fs := setupFileStore(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fs.now = func() time.Time { return now }

	require.NoError(t, fs.Save(ctx, "default", testSession(), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := fs.Get(ctx, "default")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = fs.Get(ctx, "default")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	_, err = os.Stat(filepath.Join(fs.Dir(), "default.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileSessionStore_Delete(t *testing.T) {
	fs := setupFileStore(t)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, "default", testSession(), 0))
	require.NoError(t, fs.Delete(ctx, "default"))

	_, err := fs.Get(ctx, "default")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// повторное удаление не ошибка
	assert.NoError(t, fs.Delete(ctx, "default"))
}

func TestFileSessionStore_BadKey(t *testing.T) {
	fs := setupFileStore(t)

	for _, key := range []string{"", "..", "../etc/passwd", `a\b`} {
		err := fs.Save(context.Background(), key, testSession(), 0)
		assert.ErrorIs(t, err, storage.ErrBadSessionKey, key)
	}
}

func TestFileSessionStore_CanceledContext(t *testing.T) {
	fs := setupFileStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, fs.Save(ctx, "default", testSession(), 0), context.Canceled)
}

func TestFileSessionStore_Concurrent(t *testing.T) {
	fs := setupFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, fs.Save(ctx, "default", testSession(), time.Hour))
			_, err := fs.Get(ctx, "default")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
