// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiori-press/shiori/internal/core/catalog"
)

func newRepository(t *testing.T) *catalog.RedisRepository {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return catalog.NewRedisRepository(client)
}

/*
TestRedisRepository_LatestOrdersByPublication verifies newest-first ordering
and pagination.
*/
func TestRedisRepository_LatestOrdersByPublication(t *testing.T) {
	repository := newRepository(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repository.AddLatest(context.Background(), "book-a", base))
	require.NoError(t, repository.AddLatest(context.Background(), "book-b", base.Add(time.Hour)))
	require.NoError(t, repository.AddLatest(context.Background(), "book-c", base.Add(2*time.Hour)))

	entries, total, err := repository.Latest(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "book-c", entries[0].BookID)
	assert.Equal(t, "book-b", entries[1].BookID)
	assert.Equal(t, base.Add(2*time.Hour), entries[0].PublishedAt)

	entries, _, err = repository.Latest(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "book-a", entries[0].BookID)
}

/*
TestRedisRepository_AddKeepsOriginalScore verifies the NX semantics: a
re-add after hide/unhide must not move the book in the feed.
*/
func TestRedisRepository_AddKeepsOriginalScore(t *testing.T) {
	repository := newRepository(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repository.AddLatest(context.Background(), "book-a", base))
	require.NoError(t, repository.AddLatest(context.Background(), "book-b", base.Add(time.Hour)))

	// Re-publication much later must not promote book-a
	require.NoError(t, repository.AddLatest(context.Background(), "book-a", base.Add(48*time.Hour)))

	entries, total, err := repository.Latest(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "book-b", entries[0].BookID)
	assert.Equal(t, "book-a", entries[1].BookID)
	assert.Equal(t, base, entries[1].PublishedAt)
}

/*
TestRedisRepository_LatestEmptyFeed covers the empty set.
*/
func TestRedisRepository_LatestEmptyFeed(t *testing.T) {
	repository := newRepository(t)

	entries, total, err := repository.Latest(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, entries)
}
