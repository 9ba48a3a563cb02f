// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package catalog

import (
	"context"
	"time"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/core/book"
)

// Service exposes the discovery feed and implements [book.CatalogPublisher].
type Service struct {
	repo  Repository
	books *book.Service
}

func NewService(repo Repository, books *book.Service) *Service {
	return &Service{repo: repo, books: books}
}

// AddLatest registers a book's first publication in the feed.
func (service *Service) AddLatest(context context.Context, bookID string, publishedAt time.Time) error {
	return service.repo.AddLatest(context, bookID, publishedAt)
}

/*
Latest returns the newest published books as public projections.

Description: Membership is read from the sorted set, then each book is
resolved anonymously. Books that have since been hidden resolve to
not-found and are dropped from the page; other resolution failures abort
the request. The total still counts every member, so pagination stays
stable while a book is temporarily hidden.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*book.View: Public projections, newest first
  - int: Total feed membership
  - error: Resolution or storage failures
*/
func (service *Service) Latest(context context.Context, limit, offset int) ([]*book.View, int, error) {
	entries, total, err := service.repo.Latest(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*book.View, 0, len(entries))
	for _, entry := range entries {
		view, err := service.books.GetBook(context, book.Principal{}, entry.BookID)
		if err != nil {
			if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
				continue
			}
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}
