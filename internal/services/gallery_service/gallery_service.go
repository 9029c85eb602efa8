package services

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"photofolio/internal/domain/models"
	"photofolio/internal/lib/logger/sl"
	"photofolio/internal/storage"
)

// ListingSource отдаёт текущий листинг раздела. Источником служит либо
// версионированный документ, либо прямой листинг объектов хранилища.
type ListingSource interface {
	Images(ctx context.Context, category models.Category) (models.Listing, error)
}

// GalleryService отвечает на публичные чтения галереи: кэширует
// листинги и деградирует на вшитый набор заглушек, если бэкенд
// недоступен — страница галереи не должна падать из-за хранилища.
type GalleryService struct {
	log    *slog.Logger
	source ListingSource
	cache  *cache.Cache
}

func NewGalleryService(log *slog.Logger, source ListingSource, ttl time.Duration) *GalleryService {
	return &GalleryService{
		log:    log,
		source: source,
		cache:  cache.New(ttl, 2*ttl),
	}
}

// Images возвращает листинг раздела, свежие записи первыми.
func (s *GalleryService) Images(ctx context.Context, category models.Category) (models.Listing, error) {
	const op = "gallery_service.Images"

	if cached, ok := s.cache.Get(category.String()); ok {
		return cached.(models.Listing), nil
	}

	listing, err := s.source.Images(ctx, category)
	if err != nil {
		s.log.Warn("falling back to placeholder images",
			slog.String("op", op),
			slog.String("category", category.String()),
			sl.Err(err))

		// Заглушки не кэшируем, следующее чтение снова попробует бэкенд
		return fallbackImages(category), nil
	}

	if listing == nil {
		listing = models.Listing{}
	}

	s.cache.SetDefault(category.String(), listing)

	return listing, nil
}

// Categories возвращает фиксированный набор разделов галереи.
func (s *GalleryService) Categories() []models.Category {
	return models.Categories()
}

// Invalidate сбрасывает кэш раздела после мутации.
func (s *GalleryService) Invalidate(category models.Category) {
	s.cache.Delete(category.String())
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// LiveListingSource строит листинг прямо из префиксного листинга
// хранилища. Синхронизация не нужна, но реальных размеров у объектов
// нет — подставляются значения по умолчанию.
type LiveListingSource struct {
	blob storage.BlobStorage
}

func NewLiveListingSource(blob storage.BlobStorage) *LiveListingSource {
	return &LiveListingSource{blob: blob}
}

func (s *LiveListingSource) Images(ctx context.Context, category models.Category) (models.Listing, error) {
	objects, err := s.blob.List(ctx, "portfolio/"+category.String()+"/")
	if err != nil {
		return nil, err
	}

	listing := make(models.Listing, 0, len(objects))
	for _, obj := range objects {
		if !imageExtensions[strings.ToLower(path.Ext(obj.Key))] {
			continue
		}

		listing = append(listing, models.GalleryImage{
			Src:    "/static/" + obj.Key,
			Width:  models.DefaultWidth,
			Height: models.DefaultHeight,
		})
	}

	return listing, nil
}
