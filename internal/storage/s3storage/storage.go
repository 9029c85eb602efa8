package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"photofolio/internal/config"
	"photofolio/internal/storage"
)

// S3BlobStorage хранит объекты в S3-совместимом хранилище (Cloudflare R2).
type S3BlobStorage struct {
	client *minio.Client
	bucket string
}

func NewS3BlobStorage(cfg config.S3Config) (*S3BlobStorage, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
		Region: "auto", // R2 не использует регионы
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3BlobStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (s *S3BlobStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

func (s *S3BlobStorage) Delete(ctx context.Context, key string) error {
	// RemoveObject в S3 молчит про отсутствующий ключ, проверяем сами,
	// чтобы отличить stale-запись листинга от реального удаления
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return storage.ErrObjectNotFound
		}
		return fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
	}

	return nil
}

func (s *S3BlobStorage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var objects []storage.ObjectInfo

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, obj.Err)
		}

		objects = append(objects, storage.ObjectInfo{
			Key:  obj.Key,
			Size: obj.Size,
			ETag: obj.ETag,
		})
	}

	return objects, nil
}
