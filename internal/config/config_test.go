package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"artclub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	return path
}

func TestLoadPath_Defaults(t *testing.T) {
	path := writeConfig(t, `
session:
  secret: "s3cret"
`)

	cfg, err := config.LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "http://127.0.0.1:8000/api/", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 100, cfg.API.MaxPages)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "session", cfg.Session.Name)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, ".artclub", cfg.CLI.SessionDir)
}

func TestLoadPath_Overrides(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
api:
  base_url: "https://club.example.com/api/"
  timeout: 3s
  max_pages: 5
session:
  secret: "s3cret"
redis:
  redis_addr: "redis:6379"
  redis_db: 2
`)

	cfg, err := config.LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "https://club.example.com/api/", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.API.MaxPages)
	assert.Equal(t, "redis:6379", cfg.Redis.RedisAddr)
	assert.Equal(t, 2, cfg.Redis.RedisDB)
}

func TestLoadPath_MissingFile(t *testing.T) {
	_, err := config.LoadPath(filepath.Join(t.TempDir(), "nope.yaml"))

	var pathErr *config.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestMustLoadPath_PanicsWithoutSecret(t *testing.T) {
	path := writeConfig(t, `env: "local"`)

	assert.Panics(t, func() {
		config.MustLoadPath(path)
	})
}

func TestLoadClient_NoSecretNeeded(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "https://club.example.com/api/"
cli:
  session_dir: "/tmp/artclub"
`)

	cfg, err := config.LoadClient(path)
	require.NoError(t, err)

	assert.Equal(t, "https://club.example.com/api/", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/artclub", cfg.CLI.SessionDir)
}

func TestLoadClient_EnvOnly(t *testing.T) {
	t.Setenv("ARTCLUB_API_URL", "http://api.local/")
	t.Setenv("ARTCLUB_SESSION_DIR", "sessions")

	cfg, err := config.LoadClient("")
	require.NoError(t, err)

	assert.Equal(t, "http://api.local/", cfg.API.BaseURL)
	assert.Equal(t, "sessions", cfg.CLI.SessionDir)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
}
