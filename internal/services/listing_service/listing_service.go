package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"photofolio/internal/domain/models"
	"photofolio/internal/lib/logger/sl"
	"photofolio/internal/metrics"
	"photofolio/internal/repository"
)

// ListingService держит листинг раздела согласованным при добавлении и
// удалении записей. Каждая операция — цикл fetch/modify/conditional-put:
// при конфликте версий документ перечитывается и запись повторяется
// ограниченное число раз с экспоненциальной паузой.
type ListingService struct {
	log        *slog.Logger
	store      repository.ListingStore
	maxRetries uint64
}

func NewListingService(log *slog.Logger, store repository.ListingStore, maxRetries int) *ListingService {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &ListingService{
		log:        log,
		store:      store,
		maxRetries: uint64(maxRetries),
	}
}

// Add вставляет запись в голову листинга раздела. Запись с тем же src
// вытесняется, дубликатов не возникает. Нулевые размеры заменяются на
// значения по умолчанию.
func (s *ListingService) Add(ctx context.Context, category models.Category, img models.GalleryImage) error {
	const op = "listing_service.Add"

	log := s.log.With(
		slog.String("op", op),
		slog.String("category", category.String()),
		slog.String("src", img.Src),
	)

	img = img.Normalized()
	if err := img.Validate(); err != nil {
		return err
	}

	err := s.retry(ctx, category, func() error {
		listing, version, err := s.store.Get(ctx, category)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		_, err = s.store.Put(ctx, category, listing.Prepend(img), version)
		return err
	})
	if err != nil {
		log.Error("failed to add listing entry", sl.Err(err))
		return err
	}

	log.Info("listing entry added")

	return nil
}

// Remove удаляет запись по точному совпадению src. Отсутствие записи —
// models.ErrImageNotFound, листинг при этом не изменяется.
func (s *ListingService) Remove(ctx context.Context, category models.Category, src string) error {
	const op = "listing_service.Remove"

	log := s.log.With(
		slog.String("op", op),
		slog.String("category", category.String()),
		slog.String("src", src),
	)

	err := s.retry(ctx, category, func() error {
		listing, version, err := s.store.Get(ctx, category)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if listing.IndexOf(src) < 0 {
			return models.ErrImageNotFound
		}

		_, err = s.store.Put(ctx, category, listing.Without(src), version)
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrImageNotFound) {
			log.Warn("listing entry not found")
		} else {
			log.Error("failed to remove listing entry", sl.Err(err))
		}
		return err
	}

	log.Info("listing entry removed")

	return nil
}

// Images возвращает текущий листинг раздела.
func (s *ListingService) Images(ctx context.Context, category models.Category) (models.Listing, error) {
	const op = "listing_service.Images"

	listing, _, err := s.store.Get(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return listing, nil
}

func (s *ListingService) retry(ctx context.Context, category models.Category, attempt func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxInterval = time.Second

	return backoff.Retry(func() error {
		err := attempt()
		if err == nil {
			return nil
		}

		// Повторяется только конфликт версий; ошибки чтения, записи и
		// отсутствующие записи фатальны для операции
		if !errors.Is(err, repository.ErrVersionConflict) {
			return backoff.Permanent(err)
		}

		metrics.ListingConflicts.WithLabelValues(category.String()).Inc()
		s.log.Warn("listing version conflict, retrying",
			slog.String("category", category.String()))

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, s.maxRetries), ctx))
}
