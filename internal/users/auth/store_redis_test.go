// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/users/auth"
)

func newSessionRepository(t *testing.T) (*auth.RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewRedisSessionRepository(client), server
}

/*
TestRedisSessionRepository_Lifecycle walks create, resolve, and revoke.
*/
func TestRedisSessionRepository_Lifecycle(t *testing.T) {
	repository, _ := newSessionRepository(t)

	require.NoError(t, repository.Create(context.Background(), "hash-1", "user-a", time.Hour))

	userID, err := repository.Resolve(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "user-a", userID)

	require.NoError(t, repository.Revoke(context.Background(), "hash-1"))

	_, err = repository.Resolve(context.Background(), "hash-1")
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Revoking an unknown hash is a no-op
	require.NoError(t, repository.Revoke(context.Background(), "hash-1"))
}

/*
TestRedisSessionRepository_Expiry verifies the TTL is honored.
*/
func TestRedisSessionRepository_Expiry(t *testing.T) {
	repository, server := newSessionRepository(t)

	require.NoError(t, repository.Create(context.Background(), "hash-1", "user-a", time.Minute))

	server.FastForward(2 * time.Minute)

	_, err := repository.Resolve(context.Background(), "hash-1")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestRedisSessionRepository_RevokeOthers verifies the per-user index: all
sessions of a user die except the one explicitly kept.
*/
func TestRedisSessionRepository_RevokeOthers(t *testing.T) {
	repository, _ := newSessionRepository(t)

	require.NoError(t, repository.Create(context.Background(), "hash-1", "user-a", time.Hour))
	require.NoError(t, repository.Create(context.Background(), "hash-2", "user-a", time.Hour))
	require.NoError(t, repository.Create(context.Background(), "hash-3", "user-b", time.Hour))

	require.NoError(t, repository.RevokeOthers(context.Background(), "user-a", "hash-2"))

	_, err := repository.Resolve(context.Background(), "hash-1")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	userID, err := repository.Resolve(context.Background(), "hash-2")
	require.NoError(t, err)
	assert.Equal(t, "user-a", userID)

	// Another user's sessions are untouched
	userID, err = repository.Resolve(context.Background(), "hash-3")
	require.NoError(t, err)
	assert.Equal(t, "user-b", userID)
}
