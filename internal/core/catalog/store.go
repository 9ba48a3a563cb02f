// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package catalog

import (
	"context"
	"time"
)

type Repository interface {
	// AddLatest registers a book with its publication time. Adding an
	// existing member is a no-op, preserving the original score.
	AddLatest(context context.Context, bookID string, publishedAt time.Time) error

	// Latest returns one page of the feed, newest first, plus the total
	// member count.
	Latest(context context.Context, limit, offset int) ([]Entry, int, error)
}
