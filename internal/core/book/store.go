// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"context"
	"time"
)

// # Book Data Access

// BookRepository defines the data access contract for the book aggregate.
//
// Implementations persist the release sequence as append-only history and
// must reject writes against published releases.
type BookRepository interface {

	/*
		Create persists a new book together with its first (empty) draft release
		in a single transaction.

		Parameters:
		  - context: context.Context
		  - book: *Book (Identity, owner, language, initial status)
		  - first: *Release (Position 0, status unpublished)

		Returns:
		  - error: Storage or constraint failures
	*/
	Create(context context.Context, book *Book, first *Release) error

	/*
		FindByID returns the book with the given ID, hydrated with its full
		release sequence and each release's category IDs.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Book: The hydrated aggregate
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Book, error)

	/*
		ListByOwner returns a paginated slice of an author's books (without
		hydrated release sequences; only the active release is attached).

		Parameters:
		  - context: context.Context
		  - ownerID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Book: Slice of books, newest first
		  - int: Total count for pagination metadata
		  - error: Database retrieval failures
	*/
	ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Book, int, error)

	/*
		ListPublished returns a paginated slice of publicly visible books.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Book: Books with status published, newest publication first
		  - int: Total count
		  - error: Database retrieval failures
	*/
	ListPublished(context context.Context, limit, offset int) ([]*Book, int, error)

	/*
		UpdateStatus flips the book's lifecycle state under optimistic locking.

		Parameters:
		  - context: context.Context
		  - bookID: string (UUID)
		  - status: Status (Target state)
		  - expectedVersion: int (Version the caller read)

		Returns:
		  - error: A stale-version conflict if another writer advanced the book first
	*/
	UpdateStatus(context context.Context, bookID string, status Status, expectedVersion int) error

	/*
		UpdateLanguage changes the book's language under optimistic locking.

		Parameters:
		  - context: context.Context
		  - bookID: string (UUID)
		  - language: string (ISO-639-1)
		  - expectedVersion: int

		Returns:
		  - error: A stale-version conflict on a concurrent write
	*/
	UpdateLanguage(context context.Context, bookID, language string, expectedVersion int) error

	/*
		AppendRelease appends a new draft to the book's sequence in a single
		transaction: insert release, insert category links, bump book version.

		Parameters:
		  - context: context.Context
		  - bookID: string (UUID)
		  - expectedVersion: int (Version the caller read)
		  - release: *Release (The cloned draft)

		Returns:
		  - error: A stale-version conflict on a concurrent append
	*/
	AppendRelease(context context.Context, bookID string, expectedVersion int, release *Release) error

	/*
		UpdateDraft overwrites the content fields of an unpublished release and
		replaces its category links in a single transaction.

		Parameters:
		  - context: context.Context
		  - release: *Release (Target ID and full edited content)

		Returns:
		  - error: ErrNotFound if the release is missing or already published
	*/
	UpdateDraft(context context.Context, release *Release) error

	/*
		PublishDraft marks an unpublished release as published, stamping its
		release name, notes, and publication time.

		Parameters:
		  - context: context.Context
		  - releaseID: string (UUID)
		  - releaseName: string
		  - releaseNotes: string
		  - publishedAt: time.Time

		Returns:
		  - error: ErrNotFound if the release is missing or already published
	*/
	PublishDraft(context context.Context, releaseID, releaseName, releaseNotes string, publishedAt time.Time) error
}

// # Asset Data Access

// AssetRepository defines the data access contract for cover and file assets.
type AssetRepository interface {

	/*
		FindCover returns the cover asset record with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *CoverAsset: The hydrated record
		  - error: ErrNotFound if missing
	*/
	FindCover(context context.Context, id string) (*CoverAsset, error)

	/*
		CreateCover persists a new cover asset record.

		Parameters:
		  - context: context.Context
		  - cover: *CoverAsset

		Returns:
		  - error: Storage failures
	*/
	CreateCover(context context.Context, cover *CoverAsset) error

	/*
		UpdateCover overwrites the metadata of an existing cover asset. Used on
		the in-place path when a draft already owns its asset exclusively.

		Parameters:
		  - context: context.Context
		  - cover: *CoverAsset (Target ID and new metadata)

		Returns:
		  - error: ErrNotFound if missing
	*/
	UpdateCover(context context.Context, cover *CoverAsset) error

	/*
		AttachCover repoints an unpublished release at a cover asset.

		Parameters:
		  - context: context.Context
		  - releaseID: string (UUID, must be a draft)
		  - coverID: string (UUID)

		Returns:
		  - error: ErrNotFound if the release is missing or published
	*/
	AttachCover(context context.Context, releaseID, coverID string) error

	/*
		FindFile returns the file asset record with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *FileAsset: The hydrated record
		  - error: ErrNotFound if missing
	*/
	FindFile(context context.Context, id string) (*FileAsset, error)

	/*
		CreateFile persists a new file asset record.

		Parameters:
		  - context: context.Context
		  - file: *FileAsset

		Returns:
		  - error: Storage failures
	*/
	CreateFile(context context.Context, file *FileAsset) error

	/*
		UpdateFile overwrites the metadata of an existing file asset.

		Parameters:
		  - context: context.Context
		  - file: *FileAsset (Target ID and new metadata)

		Returns:
		  - error: ErrNotFound if missing
	*/
	UpdateFile(context context.Context, file *FileAsset) error

	/*
		AttachFile repoints an unpublished release at a file asset.

		Parameters:
		  - context: context.Context
		  - releaseID: string (UUID, must be a draft)
		  - fileID: string (UUID)

		Returns:
		  - error: ErrNotFound if the release is missing or published
	*/
	AttachFile(context context.Context, releaseID, fileID string) error
}

// # Outbound Ports

// ObjectStorage is the narrow slice of the object store the service needs.
// Satisfied by the platform S3 client.
type ObjectStorage interface {

	// Upload writes a binary payload under the given object key.
	Upload(context context.Context, objectKey, contentType string, payload []byte) error

	// DownloadURL returns a short-lived presigned GET URL for an object.
	DownloadURL(context context.Context, objectKey string) (string, error)
}

// CatalogPublisher records catalogue membership when a book goes live.
// Satisfied by the Redis-backed catalog store.
type CatalogPublisher interface {

	// AddLatest idempotently adds a book to the latest-publications feed,
	// scored by its publication time.
	AddLatest(context context.Context, bookID string, publishedAt time.Time) error
}
