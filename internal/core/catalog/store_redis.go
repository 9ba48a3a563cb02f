// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shiori-press/shiori/internal/platform/constants"
)

// RedisRepository implements Repository on a Redis sorted set.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new Redis-backed catalog Repository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

/*
AddLatest registers a book in the latest-releases set.

Description: Uses ZADD NX so a member that is already present keeps its
original score. Publication after a hide/unhide cycle therefore never
reshuffles the feed.

Parameters:
  - context: context.Context
  - bookID: string
  - publishedAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *RedisRepository) AddLatest(context context.Context, bookID string, publishedAt time.Time) error {
	member := redis.Z{
		Score:  float64(publishedAt.UnixMilli()),
		Member: bookID,
	}
	if err := repository.client.ZAddNX(context, constants.CatalogLatestKey, member).Err(); err != nil {
		return fmt.Errorf("redis_catalog_add_failed: %w", err)
	}
	return nil
}

/*
Latest returns one page of the feed, newest publication first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []Entry: Page of membership records
  - int: Total member count
  - error: Execution errors
*/
func (repository *RedisRepository) Latest(context context.Context, limit, offset int) ([]Entry, int, error) {
	total, err := repository.client.ZCard(context, constants.CatalogLatestKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis_catalog_count_failed: %w", err)
	}

	stop := int64(offset + limit - 1)
	members, err := repository.client.ZRevRangeWithScores(context, constants.CatalogLatestKey, int64(offset), stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis_catalog_range_failed: %w", err)
	}

	entries := make([]Entry, 0, len(members))
	for _, member := range members {
		id, ok := member.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			BookID:      id,
			PublishedAt: time.UnixMilli(int64(member.Score)).UTC(),
		})
	}
	return entries, int(total), nil
}
