package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"artclub/internal/domain/models"
	"artclub/internal/storage"
)

// FileSessionStore хранит сессию CLI в файле, по файлу на ключ
type FileSessionStore struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

type record struct {
	Session   models.Session `json:"session"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

func NewFileSessionStore(dir string) (*FileSessionStore, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage.filestorage.New: %w", err)
	}

	return &FileSessionStore{dir: dir, now: time.Now}, nil
}

func (s *FileSessionStore) Dir() string {
	return s.dir
}

func (s *FileSessionStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", storage.ErrBadSessionKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Save пишет сессию через временный файл и rename, ttl <= 0 без срока
func (s *FileSessionStore) Save(ctx context.Context, key string, sess models.Session, ttl time.Duration) error {
	const op = "storage.filestorage.Save"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	path, err := s.path(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rec := record{Session: sess}
	if ttl > 0 {
		exp := s.now().Add(ttl).UTC()
		rec.ExpiresAt = &exp
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *FileSessionStore) Get(ctx context.Context, key string) (models.Session, error) {
	const op = "storage.filestorage.Get"

	if err := ctx.Err(); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	path, err := s.path(key)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Session{}, fmt.Errorf("%s: %w", op, storage.ErrSessionNotFound)
		}
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if rec.ExpiresAt != nil && !s.now().Before(*rec.ExpiresAt) {
		_ = os.Remove(path)
		return models.Session{}, fmt.Errorf("%s: %w", op, storage.ErrSessionNotFound)
	}

	return rec.Session, nil
}

// Delete удаляет файл сессии; отсутствие файла ошибкой не считается
func (s *FileSessionStore) Delete(ctx context.Context, key string) error {
	const op = "storage.filestorage.Delete"

	path, err := s.path(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
