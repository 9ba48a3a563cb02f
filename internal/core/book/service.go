// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"context"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/ctxutil"
	"github.com/shiori-press/shiori/internal/platform/sec"
	"github.com/shiori-press/shiori/pkg/keylock"
)

// # Service Layer

// Service orchestrates the business logic of the book domain: the release
// versioning engine, the publication state machine, and asset attachment.
//
// # Concurrency
//
// Mutating operations serialise per book through a keyed lock, so the
// read-decide-write sequence of one aggregate never interleaves with another
// writer in the same process. The repository's optimistic version counter
// backstops cross-process races.
type Service struct {
	bookRepo  BookRepository
	assetRepo AssetRepository
	storage   ObjectStorage
	catalog   CatalogPublisher
	locks     *keylock.KeyLock
}

// NewService constructs a new [Service] with its required dependencies.
func NewService(bookRepo BookRepository, assetRepo AssetRepository, storage ObjectStorage, catalog CatalogPublisher) *Service {
	return &Service{
		bookRepo:  bookRepo,
		assetRepo: assetRepo,
		storage:   storage,
		catalog:   catalog,
		locks:     keylock.New(),
	}
}

// # Authorization

/*
authorize checks that the principal may operate on the given book.

Description: Admins may operate on any book. Authors may operate on books
they own. Everyone else is rejected before any state is touched.

Parameters:
  - principal: Principal (The acting user)
  - book: *Book (The target aggregate)

Returns:
  - error: Unauthorized for anonymous callers, Forbidden otherwise
*/
func (service *Service) authorize(principal Principal, book *Book) error {
	if principal.UserID == "" {
		return apperr.Unauthorized("Authentication required")
	}
	if sec.UserRole(principal.Role).IsAdmin() {
		return nil
	}
	if book.OwnerID == principal.UserID && sec.UserRole(principal.Role).AtLeast(sec.RoleAuthor) {
		return nil
	}
	return apperr.Forbidden("You do not have access to this book")
}

// # Internal Helpers

/*
loadOwned fetches a book and verifies the principal's access in one step.

Parameters:
  - context: context.Context
  - principal: Principal
  - bookID: string (UUID)

Returns:
  - *Book: The hydrated aggregate
  - error: NotFound, Unauthorized, or Forbidden
*/
func (service *Service) loadOwned(context context.Context, principal Principal, bookID string) (*Book, error) {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}
	if err := service.authorize(principal, book); err != nil {
		return nil, err
	}
	return book, nil
}

/*
view projects a book through the given release into its client-facing shape,
resolving asset records and presigning download URLs.

Description: Presigning failures degrade gracefully. The view is still
returned without a URL and the incident is logged, so a storage hiccup
never hides the book's metadata.

Parameters:
  - context: context.Context
  - book: *Book
  - release: *Release (The projection source)
  - includeFileURL: bool (Only owners and admins receive file links)

Returns:
  - *View: The projected read model
  - error: Asset lookup failures
*/
func (service *Service) view(context context.Context, book *Book, release *Release, includeFileURL bool) (*View, error) {
	view := &View{
		ID:            book.ID,
		OwnerID:       book.OwnerID,
		Language:      book.Language,
		Status:        book.Status,
		Version:       book.Version,
		ReleaseID:     release.ID,
		ReleaseStatus: release.Status,
		ReleaseCount:  len(book.Releases),
		PublishedAt:   release.PublishedAt,
		Title:         release.Title,
		Description:   release.Description,
		Price:         release.Price,
		ISBN:          release.ISBN,
		CategoryIDs:   release.CategoryIDs,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}

	logger := ctxutil.GetLogger(context)

	if release.CoverAssetID != nil {
		cover, err := service.assetRepo.FindCover(context, *release.CoverAssetID)
		if err != nil {
			return nil, err
		}
		info := &CoverInfo{
			ID:          cover.ID,
			Blurhash:    cover.Blurhash,
			AspectRatio: cover.AspectRatio,
		}
		url, err := service.storage.DownloadURL(context, cover.ObjectKey)
		if err != nil {
			logger.Warn("failed to presign cover url", "asset_id", cover.ID, "error", err)
		} else {
			info.URL = url
		}
		view.Cover = info
	}

	if release.FileAssetID != nil {
		file, err := service.assetRepo.FindFile(context, *release.FileAssetID)
		if err != nil {
			return nil, err
		}
		info := &FileInfo{
			ID:       file.ID,
			FileName: file.FileName,
		}
		if includeFileURL {
			url, err := service.storage.DownloadURL(context, file.ObjectKey)
			if err != nil {
				logger.Warn("failed to presign file url", "asset_id", file.ID, "error", err)
			} else {
				info.URL = url
			}
		}
		view.File = info
	}

	return view, nil
}
