// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/pkg/slice"
)

// RedisSessionRepository implements SessionRepository using Redis.
//
// Each session is a key "auth:session:{tokenHash}" holding the userID with
// the session TTL. A per-user set "auth:user_sessions:{userID}" indexes the
// hashes so all of a user's sessions can be revoked together.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new Redis-backed SessionRepository.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return fmt.Sprintf("auth:session:%s", tokenHash)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("auth:user_sessions:%s", userID)
}

/*
Create registers a session under the token hash with the given TTL.

Description: The per-user index set receives the same TTL refresh so it
never outlives the longest session by more than one TTL window.

Parameters:
  - context: context.Context
  - tokenHash: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	pipe := repository.client.TxPipeline()
	pipe.Set(context, sessionKey(tokenHash), userID, ttl)
	pipe.SAdd(context, userSessionsKey(userID), tokenHash)
	pipe.Expire(context, userSessionsKey(userID), ttl)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
Resolve returns the userID owning the session.

Description: Returns apperr.Unauthorized when the session is absent,
expired, or revoked.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - string: UserID
  - error: apperr.Unauthorized or connectivity errors
*/
func (repository *RedisSessionRepository) Resolve(context context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.Get(context, sessionKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.Unauthorized("Session is invalid or expired")
		}
		return "", fmt.Errorf("redis_session_resolve_failed: %w", err)
	}
	return userID, nil
}

/*
Revoke removes a single session and its index entry.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenHash string) error {
	userID, err := repository.client.Get(context, sessionKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}

	pipe := repository.client.TxPipeline()
	pipe.Del(context, sessionKey(tokenHash))
	pipe.SRem(context, userSessionsKey(userID), tokenHash)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}

/*
RevokeOthers removes every session of the userID except keepHash.

Parameters:
  - context: context.Context
  - userID: string
  - keepHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) RevokeOthers(context context.Context, userID, keepHash string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	stale := slice.Filter(hashes, func(hash string) bool { return hash != keepHash })
	if len(stale) == 0 {
		return nil
	}

	pipe := repository.client.TxPipeline()
	for _, hash := range stale {
		pipe.Del(context, sessionKey(hash))
		pipe.SRem(context, userSessionsKey(userID), hash)
	}

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_revoke_others_failed: %w", err)
	}
	return nil
}
