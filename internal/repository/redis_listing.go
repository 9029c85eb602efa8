package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"photofolio/internal/domain/models"
)

const listingKeyPrefix = "photofolio:listing:"

// Скрипт сравнивает версию текущего документа с ожидаемой и пишет
// новый документ атомарно. Отсутствующий ключ считается версией 0.
var casScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
local curv = 0
if cur then
  local doc = cjson.decode(cur)
  curv = doc.version
end
if tostring(curv) == ARGV[1] then
  redis.call('SET', KEYS[1], ARGV[2])
  return 1
end
return 0
`)

type listingDoc struct {
	Version int64          `json:"version"`
	Images  models.Listing `json:"images"`
}

// RedisListingStore хранит документ листинга в Redis со встроенным
// счётчиком версии, условная запись через Lua compare-and-swap.
type RedisListingStore struct {
	client redis.Cmdable
}

func NewRedisListingStore(client redis.Cmdable) *RedisListingStore {
	return &RedisListingStore{client: client}
}

func (s *RedisListingStore) Get(ctx context.Context, category models.Category) (models.Listing, string, error) {
	const op = "repository.redis_listing.Get"

	raw, err := s.client.Get(ctx, listingKey(category)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Listing{}, VersionNone, nil
		}
		return nil, "", fmt.Errorf("failed to get listing: %s %w", op, err)
	}

	var doc listingDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, "", fmt.Errorf("failed to parse listing: %s %w", op, err)
	}

	if doc.Images == nil {
		doc.Images = models.Listing{}
	}

	return doc.Images, strconv.FormatInt(doc.Version, 10), nil
}

func (s *RedisListingStore) Put(ctx context.Context, category models.Category, listing models.Listing, version string) (string, error) {
	const op = "repository.redis_listing.Put"

	expected := int64(0)
	if version != VersionNone {
		var err error
		expected, err = strconv.ParseInt(version, 10, 64)
		if err != nil {
			return "", fmt.Errorf("bad version token: %s %w", op, err)
		}
	}

	if listing == nil {
		listing = models.Listing{}
	}

	payload, err := json.Marshal(listingDoc{
		Version: expected + 1,
		Images:  listing,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal listing: %s %w", op, err)
	}

	ok, err := casScript.Run(ctx, s.client,
		[]string{listingKey(category)},
		strconv.FormatInt(expected, 10),
		string(payload),
	).Int64()
	if err != nil {
		return "", fmt.Errorf("failed to put listing: %s %w", op, err)
	}
	if ok != 1 {
		return "", ErrVersionConflict
	}

	return strconv.FormatInt(expected+1, 10), nil
}

func listingKey(category models.Category) string {
	return listingKeyPrefix + category.String()
}
