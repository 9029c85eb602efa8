package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"photofolio/internal/domain/models"
)

// FileListingStore держит документ листинга в JSON-файле на категорию.
// Токен версии — sha256 содержимого файла. Условность записи
// обеспечивается мьютексом и перечитыванием файла, что достаточно для
// одного процесса; межпроцессных гарантий у этого бэкенда нет.
type FileListingStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileListingStore(dir string) (*FileListingStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create listings dir: %w", err)
	}

	return &FileListingStore{dir: dir}, nil
}

func (s *FileListingStore) Get(ctx context.Context, category models.Category) (models.Listing, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(category)
}

func (s *FileListingStore) Put(ctx context.Context, category models.Category, listing models.Listing, version string) (string, error) {
	const op = "repository.file_listing.Put"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, current, err := s.read(category)
	if err != nil {
		return "", err
	}

	if current != version {
		return "", ErrVersionConflict
	}

	if listing == nil {
		listing = models.Listing{}
	}

	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	path := s.path(category)

	tmp, err := os.CreateTemp(s.dir, ".listing-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return contentVersion(data), nil
}

func (s *FileListingStore) read(category models.Category) (models.Listing, string, error) {
	data, err := os.ReadFile(s.path(category))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Listing{}, VersionNone, nil
		}
		return nil, "", fmt.Errorf("failed to read listing: %w", err)
	}

	var listing models.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, "", fmt.Errorf("failed to parse listing: %w", err)
	}

	return listing, contentVersion(data), nil
}

func (s *FileListingStore) path(category models.Category) string {
	return filepath.Join(s.dir, category.String()+".json")
}

func contentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
