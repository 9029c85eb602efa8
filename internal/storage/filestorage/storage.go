package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"photofolio/internal/storage"
)

// LocalBlobStorage реализация хранилища для локальной файловой системы.
type LocalBlobStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
}

func NewLocalBlobStorage(baseDir string) (*LocalBlobStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalBlobStorage{baseDir: baseDir}, nil
}

func (s *LocalBlobStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := s.fullPath(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	// Пишем во временный файл и переименовываем, чтобы не оставлять
	// частично записанные объекты
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// Delete удаляет объект из хранилища.
func (s *LocalBlobStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.fullPath(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// List возвращает объекты с данным префиксом ключа.
func (s *LocalBlobStorage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.fullPath(prefix)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Отсутствие каталога раздела не ошибка, просто пустой листинг
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	objects := make([]storage.ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		objects = append(objects, storage.ObjectInfo{
			Key:  strings.TrimSuffix(prefix, "/") + "/" + entry.Name(),
			Size: info.Size(),
		})
	}

	return objects, nil
}

// BaseDir возвращает корневой каталог хранилища.
func (s *LocalBlobStorage) BaseDir() string {
	return s.baseDir
}

func (s *LocalBlobStorage) fullPath(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}
