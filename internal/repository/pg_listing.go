package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"photofolio/internal/domain/models"
)

// PGListingStore хранит листинги в Postgres: строка на категорию,
// документ в jsonb, токен версии — монотонный счётчик. Условная запись —
// UPDATE ... WHERE version = $n.
type PGListingStore struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPGListingStore(ctx context.Context, dsn string) (*PGListingStore, error) {
	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PGListingStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *PGListingStore) initSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gallery_listings (
			category TEXT PRIMARY KEY,
			images   JSONB NOT NULL,
			version  BIGINT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}

	return nil
}

func (s *PGListingStore) Get(ctx context.Context, category models.Category) (models.Listing, string, error) {
	const op = "repository.pg_listing.Get"

	query, args, err := s.sb.Select("images", "version").
		From("gallery_listings").
		Where(sq.Eq{"category": category.String()}).
		ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build query: %s %w", op, err)
	}

	var (
		raw     []byte
		version int64
	)

	err = s.db.QueryRow(ctx, query, args...).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Listing{}, VersionNone, nil
		}
		return nil, "", fmt.Errorf("failed to get listing: %s %w", op, err)
	}

	var listing models.Listing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, "", fmt.Errorf("failed to parse listing: %s %w", op, err)
	}

	return listing, strconv.FormatInt(version, 10), nil
}

func (s *PGListingStore) Put(ctx context.Context, category models.Category, listing models.Listing, version string) (string, error) {
	const op = "repository.pg_listing.Put"

	if listing == nil {
		listing = models.Listing{}
	}

	raw, err := json.Marshal(listing)
	if err != nil {
		return "", fmt.Errorf("failed to marshal listing: %s %w", op, err)
	}

	if version == VersionNone {
		query, args, err := s.sb.Insert("gallery_listings").
			Columns("category", "images", "version").
			Values(category.String(), raw, 1).
			Suffix("ON CONFLICT (category) DO NOTHING").
			ToSql()
		if err != nil {
			return "", fmt.Errorf("failed to build query: %s %w", op, err)
		}

		tag, err := s.db.Exec(ctx, query, args...)
		if err != nil {
			return "", fmt.Errorf("failed to create listing: %s %w", op, err)
		}
		if tag.RowsAffected() == 0 {
			// Кто-то успел создать листинг первым
			return "", ErrVersionConflict
		}

		return "1", nil
	}

	expected, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return "", fmt.Errorf("bad version token: %s %w", op, err)
	}

	query, args, err := s.sb.Update("gallery_listings").
		Set("images", raw).
		Set("version", expected+1).
		Where(sq.Eq{"category": category.String(), "version": expected}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build query: %s %w", op, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("failed to update listing: %s %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrVersionConflict
	}

	return strconv.FormatInt(expected+1, 10), nil
}

func (s *PGListingStore) Close() {
	s.db.Close()
}
