package repository

import (
	"context"
	"errors"

	"photofolio/internal/domain/models"
)

var (
	// ErrVersionConflict — несовпадение токена версии при условной записи:
	// листинг изменил конкурентный писатель между Get и Put.
	ErrVersionConflict = errors.New("listing version conflict")
)

// VersionNone — версия ещё не существующего листинга. Put с этой
// версией создаёт документ и конфликтует, если его уже создали.
const VersionNone = ""

// ListingStore хранит авторитетный листинг раздела как единый
// версионированный документ. Get отсутствующего раздела возвращает
// пустой листинг с VersionNone. Put выполняется только при совпадении
// переданной версии с текущей, иначе ErrVersionConflict.
type ListingStore interface {
	Get(ctx context.Context, category models.Category) (models.Listing, string, error)
	Put(ctx context.Context, category models.Category, listing models.Listing, version string) (string, error)
}
