package storage

import (
	"context"
	"errors"
)

var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrWriteConflict означает отклонённую конкурентную запись по одному
	// пути (несовпадение SHA в contents API). Ошибка подлежит повтору,
	// глотать её нельзя.
	ErrWriteConflict = errors.New("concurrent write conflict")
)

// ObjectInfo описывает один объект в хранилище.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// BlobStorage — общий контракт бэкендов хранения бинарных файлов.
// Ключи — slash-пути вида portfolio/{category}/{filename}. Put
// перезаписывает объект по ключу; вызывающая сторона избегает
// коллизий уникальными именами.
type BlobStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
