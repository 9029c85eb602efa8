package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	// Декодеры для определения размеров загружаемых изображений
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"photofolio/internal/domain/models"
	"photofolio/internal/lib/logger/sl"
	"photofolio/internal/metrics"
	"photofolio/internal/storage"
	"photofolio/internal/transport/http/dto"
)

const publicPrefix = "/static/"

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ListingSynchronizer обновляет авторитетный листинг после мутаций
// хранилища.
type ListingSynchronizer interface {
	Add(ctx context.Context, category models.Category, img models.GalleryImage) error
	Remove(ctx context.Context, category models.Category, src string) error
}

// MediaService выполняет загрузку и удаление изображений: валидация,
// запись бинарника в хранилище, затем правка листинга. Двух операций
// атомарно не бывает, поэтому частичный исход всегда сообщается
// отдельными ошибками, а не выдаётся за успех.
type MediaService struct {
	log      *slog.Logger
	blob     storage.BlobStorage
	listings ListingSynchronizer
	maxSize  int64
}

func NewMediaService(log *slog.Logger, blob storage.BlobStorage, listings ListingSynchronizer, maxSize int64) *MediaService {
	return &MediaService{
		log:      log,
		blob:     blob,
		listings: listings,
		maxSize:  maxSize,
	}
}

// Upload сохраняет файл в хранилище и добавляет запись в листинг.
// Возвращает публичный путь изображения. Если бинарник записан, а
// листинг обновить не удалось, возвращаются путь и
// models.ErrStoredNotListed.
func (s *MediaService) Upload(ctx context.Context, input dto.UploadInput) (string, error) {
	const op = "media_service.Upload"

	log := s.log.With(
		slog.String("op", op),
		slog.String("category", input.Category.String()),
	)

	if input.File == nil {
		return "", &models.ImageValidationError{Errors: []string{"file is required"}}
	}
	if !input.Category.IsValid() {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidCategory, input.Category)
	}
	if s.maxSize > 0 && input.File.Size > s.maxSize {
		return "", &models.ImageValidationError{Errors: []string{"file is too large"}}
	}

	contentType := input.File.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		return "", &models.ImageValidationError{
			Errors: []string{"file must be an image (JPEG, PNG, WebP, GIF)"},
		}
	}

	data, err := readAll(input.File)
	if err != nil {
		log.Error("failed to read upload", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	width, height := decodeDimensions(data)

	fileName := uniqueFileName(input.File.Filename)
	key := "portfolio/" + input.Category.String() + "/" + fileName
	src := publicPrefix + key

	log = log.With(slog.String("key", key))
	log.Info("uploading image",
		slog.Int64("size", input.File.Size),
		slog.String("mime_type", contentType))

	if err := s.blob.Put(ctx, key, data, contentType); err != nil {
		log.Error("failed to store image", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	entry := models.GalleryImage{Src: src, Width: width, Height: height}
	if err := s.listings.Add(ctx, input.Category, entry); err != nil {
		// Бинарник уже в хранилище; это рассогласование, не провал загрузки
		metrics.PartialSyncFailures.WithLabelValues("upload", input.Category.String()).Inc()
		log.Error("image stored but listing update failed", sl.Err(err))
		return src, fmt.Errorf("%w: %v", models.ErrStoredNotListed, err)
	}

	log.Info("image uploaded", slog.Int("width", width), slog.Int("height", height))

	return src, nil
}

// Delete удаляет бинарник и запись листинга. Отсутствие объекта в
// хранилище при живой записи листинга — восстановимый случай: запись
// всё равно удаляется и операция считается успешной.
func (s *MediaService) Delete(ctx context.Context, category models.Category, src string) error {
	const op = "media_service.Delete"

	log := s.log.With(
		slog.String("op", op),
		slog.String("category", category.String()),
		slog.String("src", src),
	)

	if src == "" {
		return &models.ImageValidationError{Errors: []string{"image source is required"}}
	}
	if !category.IsValid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidCategory, category)
	}

	key := s.storageKey(category, src)
	canonicalSrc := publicPrefix + key

	objectMissing := false
	if err := s.blob.Delete(ctx, key); err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			log.Error("failed to delete image", sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
		objectMissing = true
		log.Warn("object missing in store, removing stale listing entry")
	}

	if err := s.listings.Remove(ctx, category, canonicalSrc); err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			if objectMissing {
				// Не было ни объекта, ни записи
				return models.ErrImageNotFound
			}
			// Объект удалён, записи и так не было
			return nil
		}

		if !objectMissing {
			metrics.PartialSyncFailures.WithLabelValues("delete", category.String()).Inc()
			log.Error("image deleted but listing update failed", sl.Err(err))
			return fmt.Errorf("%w: %v", models.ErrDeletedNotUnlisted, err)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image deleted")

	return nil
}

// storageKey выводит ключ хранилища из публичного пути. Чужие формы
// пути сводятся к имени файла под префиксом раздела.
func (s *MediaService) storageKey(category models.Category, src string) string {
	if idx := strings.Index(src, publicPrefix); idx >= 0 {
		return src[idx+len(publicPrefix):]
	}

	return "portfolio/" + category.String() + "/" + path.Base(src)
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return data, nil
}

// decodeDimensions пытается прочитать размеры из самого файла;
// при неудаче остаются значения по умолчанию.
func decodeDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return models.DefaultWidth, models.DefaultHeight
	}

	return cfg.Width, cfg.Height
}

// uniqueFileName строит имя вида base-{unixMillis}-{uuid8}{ext}.
// Суффикс uuid защищает от коллизий при загрузках в одну миллисекунду.
func uniqueFileName(original string) string {
	ext := path.Ext(original)
	if ext == "" {
		ext = ".jpg"
	}

	base := strings.TrimSuffix(path.Base(original), ext)
	if base == "" {
		base = "image"
	}

	suffix := strings.Split(uuid.NewString(), "-")[0]

	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), suffix, ext)
}
