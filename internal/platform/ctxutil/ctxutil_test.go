// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiori-press/shiori/internal/platform/ctxutil"
	"github.com/shiori-press/shiori/internal/platform/sec"
)

/*
TestRequestID verifies round-tripping a request ID through a context.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()

	// Missing value yields the zero string
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies the logger fallback behavior.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()

	// Without injection, the default logger is returned
	require.NotNil(t, ctxutil.GetLogger(ctx))
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	custom := slog.Default().With(slog.String("scope", "test"))
	ctx = ctxutil.WithLogger(ctx, custom)
	assert.Equal(t, custom, ctxutil.GetLogger(ctx))
}

/*
TestAuthUser verifies claims storage and the anonymous fallback.
*/
func TestAuthUser(t *testing.T) {
	ctx := context.Background()

	// Anonymous request
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleAuthor)}
	ctx = ctxutil.WithAuthUser(ctx, claims)

	got := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
}
