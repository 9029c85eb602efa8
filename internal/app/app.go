package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "photofolio/internal/app/http"
	"photofolio/internal/config"
	"photofolio/internal/domain/models"
	"photofolio/internal/repository"
	deploy "photofolio/internal/services/deploy_service"
	gallery "photofolio/internal/services/gallery_service"
	listing "photofolio/internal/services/listing_service"
	media "photofolio/internal/services/media_service"
	"photofolio/internal/storage"
	"photofolio/internal/storage/filestorage"
	"photofolio/internal/storage/githubstorage"
	redisclient "photofolio/internal/storage/redis"
	"photofolio/internal/storage/s3storage"
	httprouters "photofolio/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	closers []func()
}

// New собирает граф зависимостей по конфигу: бэкенд хранения,
// хранилище листингов, сервисы и HTTP-сервер.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	app := &App{}

	blob, staticDir, err := buildBlobStorage(cfg)
	if err != nil {
		return nil, err
	}

	listingService, source, err := app.buildListing(ctx, log, cfg, blob)
	if err != nil {
		return nil, err
	}

	galleryService := gallery.NewGalleryService(log, source, cfg.CacheTTL)
	mediaService := media.NewMediaService(log, blob, listingService, cfg.Storage.MaxSize)
	deployService := deploy.NewDeployService(log, cfg.Deploy.HookURL, cfg.Deploy.Timeout)

	routers := httprouters.NewRouter(log, galleryService, mediaService, deployService)

	app.HTTPServer = httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers, httpapp.Options{
		AdminPasswordHash: cfg.Admin.PasswordHash,
		StaticDir:         staticDir,
	})

	return app, nil
}

func (a *App) Close() {
	for _, closer := range a.closers {
		closer()
	}
}

func buildBlobStorage(cfg *config.Config) (storage.BlobStorage, string, error) {
	switch cfg.Storage.Backend {
	case config.StorageLocal:
		blob, err := filestorage.NewLocalBlobStorage(cfg.Storage.Local.BaseDir)
		if err != nil {
			return nil, "", fmt.Errorf("failed to init local storage: %w", err)
		}
		return blob, blob.BaseDir(), nil

	case config.StorageS3:
		blob, err := s3storage.NewS3BlobStorage(cfg.Storage.S3)
		if err != nil {
			return nil, "", fmt.Errorf("failed to init s3 storage: %w", err)
		}
		return blob, "", nil

	case config.StorageGitHub:
		return githubstorage.NewGitHubBlobStorage(cfg.Storage.GitHub), "", nil

	default:
		return nil, "", fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

// buildListing возвращает синхронизатор листинга (nil для stateless
// варианта) и источник чтения галереи.
func (a *App) buildListing(ctx context.Context, log *slog.Logger, cfg *config.Config, blob storage.BlobStorage) (media.ListingSynchronizer, gallery.ListingSource, error) {
	if cfg.Listing.Backend == config.ListingStore {
		// Листинг строится из префиксного листинга хранилища,
		// синхронизировать нечего
		live := gallery.NewLiveListingSource(blob)
		return noopSynchronizer{}, live, nil
	}

	store, err := a.buildListingStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := listing.NewListingService(log, store, cfg.Listing.MaxRetries)

	return svc, svc, nil
}

func (a *App) buildListingStore(ctx context.Context, cfg *config.Config) (repository.ListingStore, error) {
	switch cfg.Listing.Backend {
	case config.ListingFile:
		store, err := repository.NewFileListingStore(cfg.Listing.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to init file listing store: %w", err)
		}
		return store, nil

	case config.ListingPostgres:
		store, err := repository.NewPGListingStore(ctx, cfg.Listing.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres listing store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil

	case config.ListingRedis:
		client := redisclient.NewClient(cfg.Listing.Redis)
		if err := client.HealthCheck(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return repository.NewRedisListingStore(client), nil

	case config.ListingGitHub:
		return repository.NewGitHubListingStore(cfg.Storage.GitHub), nil

	default:
		return nil, fmt.Errorf("unknown listing backend: %q", cfg.Listing.Backend)
	}
}

// noopSynchronizer для stateless-варианта: хранилище само и есть
// листинг, мутации дополнительной синхронизации не требуют. Remove
// отвечает ErrImageNotFound, чтобы удаление отсутствующего объекта
// осталось no-op, а удаление существующего — успехом.
type noopSynchronizer struct{}

func (noopSynchronizer) Add(context.Context, models.Category, models.GalleryImage) error {
	return nil
}

func (noopSynchronizer) Remove(context.Context, models.Category, string) error {
	return models.ErrImageNotFound
}
