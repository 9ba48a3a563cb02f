// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/database/schema"
	"github.com/shiori-press/shiori/internal/platform/dberr"
)

// # PostgreSQL Repository

// bookRepository implements the [BookRepository] interface using pgx.
//
// The release sequence is append-only: published rows are never updated, and
// every mutation of the sequence bumps the book's version counter inside the
// same transaction, so concurrent writers collide deterministically.
type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository constructs a PostgreSQL backed book store.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

// bookColumns is the full projection of the book row.
var bookColumns = strings.Join(schema.StoreBook.Columns(), ", ")

// releaseColumns is the shared projection for release hydration queries.
// The trailing json_agg sub-query folds category links into a single
// round-trip, avoiding the N+1 pattern on sequence loads.
var releaseColumns = fmt.Sprintf(`
	r.%s, r.%s, r.%s, r.%s, r.%s, r.%s,
	r.%s, r.%s, r.%s, r.%s, r.%s,
	r.%s, r.%s, r.%s, r.%s,
	COALESCE((
		SELECT json_agg(rc.%s ORDER BY rc.%s)
		FROM %s rc
		WHERE rc.%s = r.%s
	), '[]') AS categories
`,
	schema.StoreRelease.ID, schema.StoreRelease.BookID, schema.StoreRelease.Position,
	schema.StoreRelease.Status, schema.StoreRelease.PublishedAt, schema.StoreRelease.ReleaseName,
	schema.StoreRelease.ReleaseNotes, schema.StoreRelease.Title, schema.StoreRelease.Description,
	schema.StoreRelease.Price, schema.StoreRelease.ISBN,
	schema.StoreRelease.CoverAssetID, schema.StoreRelease.FileAssetID,
	schema.StoreRelease.CreatedAt, schema.StoreRelease.UpdatedAt,
	schema.StoreReleaseCategory.CategoryID, schema.StoreReleaseCategory.CategoryID,
	schema.StoreReleaseCategory.Table,
	schema.StoreReleaseCategory.ReleaseID, schema.StoreRelease.ID,
)

/*
Create persists a new book together with its first draft release.

Description: Executes inside a single transaction so a half-created book
(row without a release, or release without category links) can never be
observed. Category links ride the same transaction via a pgx batch.

Parameters:
  - context: context.Context
  - book: *Book
  - first: *Release (Position 0 draft)

Returns:
  - error: Constraint violations mapped through dberr
*/
func (repository *bookRepository) Create(context context.Context, book *Book, first *Release) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin create transaction: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.StoreBook.Table,
		schema.StoreBook.ID, schema.StoreBook.OwnerID,
		schema.StoreBook.Language, schema.StoreBook.Status, schema.StoreBook.Version)

	_, err = transaction.Exec(context, query,
		book.ID, book.OwnerID, book.Language, book.Status, book.Version)
	if err != nil {
		return dberr.Wrap(err, "create_book")
	}

	if err := insertRelease(context, transaction, first); err != nil {
		return err
	}
	if err := replaceCategories(context, transaction, first.ID, first.CategoryIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit create transaction: %w", err)
	}
	return nil
}

/*
FindByID returns the book hydrated with its full, position-ordered release
sequence and each release's category IDs.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Book: The hydrated aggregate
  - error: apperr.NotFound if missing
*/
func (repository *bookRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		bookColumns, schema.StoreBook.Table, schema.StoreBook.ID)

	book := &Book{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&book.ID, &book.OwnerID, &book.Language, &book.Status,
		&book.Version, &book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book")
		}
		return nil, fmt.Errorf("postgres: failed to find book by id: %w", err)
	}

	if err := repository.hydrateReleases(context, []*Book{book}); err != nil {
		return nil, err
	}
	return book, nil
}

/*
ListByOwner returns a paginated slice of an author's books, newest first,
each hydrated with its release sequence.

Parameters:
  - context: context.Context
  - ownerID: string (UUID)
  - limit: int
  - offset: int

Returns:
  - []*Book: Hydrated aggregates
  - int: Total count via window function, no second query
  - error: Database execution errors
*/
func (repository *bookRepository) ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Book, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
		LIMIT $2 OFFSET $3
	`, bookColumns, schema.StoreBook.Table, schema.StoreBook.OwnerID,
		schema.StoreBook.CreatedAt, schema.StoreBook.ID)

	return repository.list(context, query, ownerID, limit, offset)
}

/*
ListPublished returns a paginated slice of live storefront books.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Book: Hydrated aggregates with status published
  - int: Total count
  - error: Database execution errors
*/
func (repository *bookRepository) ListPublished(context context.Context, limit, offset int) ([]*Book, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = 'published'
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`, bookColumns, schema.StoreBook.Table, schema.StoreBook.Status,
		schema.StoreBook.UpdatedAt, schema.StoreBook.ID)

	return repository.list(context, query, limit, offset)
}

// list executes a book page query and hydrates the release sequences of the
// returned page in one follow-up round-trip.
func (repository *bookRepository) list(context context.Context, query string, args ...any) ([]*Book, int, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	var totalCount int
	for rows.Next() {
		book := &Book{}
		err := rows.Scan(
			&book.ID, &book.OwnerID, &book.Language, &book.Status,
			&book.Version, &book.CreatedAt, &book.UpdatedAt, &totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: book row iteration failed: %w", err)
	}

	if err := repository.hydrateReleases(context, books); err != nil {
		return nil, 0, err
	}
	return books, totalCount, nil
}

// hydrateReleases loads the position-ordered release sequences for every
// book in the slice using a single ANY() query.
func (repository *bookRepository) hydrateReleases(context context.Context, books []*Book) error {
	if len(books) == 0 {
		return nil
	}

	index := make(map[string]*Book, len(books))
	ids := make([]string, 0, len(books))
	for _, book := range books {
		index[book.ID] = book
		ids = append(ids, book.ID)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s r
		WHERE r.%s = ANY($1)
		ORDER BY r.%s, r.%s ASC
	`, releaseColumns, schema.StoreRelease.Table, schema.StoreRelease.BookID,
		schema.StoreRelease.BookID, schema.StoreRelease.Position)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return fmt.Errorf("postgres: failed to load releases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		release, err := scanRelease(rows)
		if err != nil {
			return err
		}
		if book, ok := index[release.BookID]; ok {
			book.Releases = append(book.Releases, release)
		}
	}
	return rows.Err()
}

// scanRelease maps one release row, decoding the aggregated category JSON.
func scanRelease(rows pgx.Rows) (*Release, error) {
	release := &Release{}
	var categoriesJSON []byte
	err := rows.Scan(
		&release.ID, &release.BookID, &release.Position, &release.Status,
		&release.PublishedAt, &release.ReleaseName, &release.ReleaseNotes,
		&release.Title, &release.Description, &release.Price, &release.ISBN,
		&release.CoverAssetID, &release.FileAssetID,
		&release.CreatedAt, &release.UpdatedAt, &categoriesJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan release: %w", err)
	}
	if err := json.Unmarshal(categoriesJSON, &release.CategoryIDs); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal categories: %w", err)
	}
	return release, nil
}

/*
UpdateStatus flips the book's lifecycle state under optimistic locking.

Description: The version predicate makes the write conditional. Zero rows
affected means another writer advanced the aggregate after the caller read
it, which surfaces as a state conflict rather than a silent lost update.

Parameters:
  - context: context.Context
  - bookID: string (UUID)
  - status: Status
  - expectedVersion: int

Returns:
  - error: apperr.StateConflict on a stale version
*/
func (repository *bookRepository) UpdateStatus(context context.Context, bookID string, status Status, expectedVersion int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = %s + 1, %s = NOW()
		WHERE %s = $2 AND %s = $3
	`, schema.StoreBook.Table,
		schema.StoreBook.Status, schema.StoreBook.Version, schema.StoreBook.Version,
		schema.StoreBook.UpdatedAt, schema.StoreBook.ID, schema.StoreBook.Version)

	result, err := repository.pool.Exec(context, query, status, bookID, expectedVersion)
	if err != nil {
		return fmt.Errorf("postgres: failed to update book status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.StateConflict("The book was modified concurrently, retry the request")
	}
	return nil
}

/*
UpdateLanguage changes the book's language under optimistic locking.

Parameters:
  - context: context.Context
  - bookID: string (UUID)
  - language: string (ISO-639-1)
  - expectedVersion: int

Returns:
  - error: apperr.StateConflict on a stale version
*/
func (repository *bookRepository) UpdateLanguage(context context.Context, bookID, language string, expectedVersion int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = %s + 1, %s = NOW()
		WHERE %s = $2 AND %s = $3
	`, schema.StoreBook.Table,
		schema.StoreBook.Language, schema.StoreBook.Version, schema.StoreBook.Version,
		schema.StoreBook.UpdatedAt, schema.StoreBook.ID, schema.StoreBook.Version)

	result, err := repository.pool.Exec(context, query, language, bookID, expectedVersion)
	if err != nil {
		return fmt.Errorf("postgres: failed to update book language: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.StateConflict("The book was modified concurrently, retry the request")
	}
	return nil
}

/*
AppendRelease appends a cloned draft to the book's sequence.

Description: A single transaction carries three writes: the conditional
version bump (which doubles as the concurrency check), the release insert,
and the category links. If two clones race, exactly one wins the version
predicate and the other rolls back whole.

Parameters:
  - context: context.Context
  - bookID: string (UUID)
  - expectedVersion: int
  - release: *Release

Returns:
  - error: apperr.StateConflict on a lost race, dberr-mapped constraint failures
*/
func (repository *bookRepository) AppendRelease(context context.Context, bookID string, expectedVersion int, release *Release) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin append transaction: %w", err)
	}
	defer transaction.Rollback(context)

	bump := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + 1, %s = NOW()
		WHERE %s = $1 AND %s = $2
	`, schema.StoreBook.Table,
		schema.StoreBook.Version, schema.StoreBook.Version, schema.StoreBook.UpdatedAt,
		schema.StoreBook.ID, schema.StoreBook.Version)

	result, err := transaction.Exec(context, bump, bookID, expectedVersion)
	if err != nil {
		return fmt.Errorf("postgres: failed to bump book version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.StateConflict("The book was modified concurrently, retry the request")
	}

	if err := insertRelease(context, transaction, release); err != nil {
		return err
	}
	if err := replaceCategories(context, transaction, release.ID, release.CategoryIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit append transaction: %w", err)
	}
	return nil
}

/*
UpdateDraft overwrites the content fields of an unpublished release and
replaces its category links.

Description: The status predicate in the WHERE clause is the immutability
guard. A release that was published between read and write matches zero
rows and the whole transaction rolls back.

Parameters:
  - context: context.Context
  - release: *Release (Full edited content)

Returns:
  - error: apperr.StateConflict if the release is no longer a draft
*/
func (repository *bookRepository) UpdateDraft(context context.Context, release *Release) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin draft transaction: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $5 AND %s = 'unpublished'
	`, schema.StoreRelease.Table,
		schema.StoreRelease.Title, schema.StoreRelease.Description,
		schema.StoreRelease.Price, schema.StoreRelease.ISBN, schema.StoreRelease.UpdatedAt,
		schema.StoreRelease.ID, schema.StoreRelease.Status)

	result, err := transaction.Exec(context, query,
		release.Title, release.Description, release.Price, release.ISBN, release.ID)
	if err != nil {
		return dberr.Wrap(err, "update_draft")
	}
	if result.RowsAffected() == 0 {
		return apperr.StateConflict("The release is no longer editable")
	}

	if err := replaceCategories(context, transaction, release.ID, release.CategoryIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit draft transaction: %w", err)
	}
	return nil
}

/*
PublishDraft marks an unpublished release as published.

Description: The publication timestamp is written through COALESCE so a row
that somehow already carries one keeps the original. The status predicate
prevents double publication.

Parameters:
  - context: context.Context
  - releaseID: string (UUID)
  - releaseName: string
  - releaseNotes: string
  - publishedAt: time.Time

Returns:
  - error: apperr.StateConflict if the release is already published or missing
*/
func (repository *bookRepository) PublishDraft(context context.Context, releaseID, releaseName, releaseNotes string, publishedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = 'published', %s = $1, %s = $2,
		    %s = COALESCE(%s, $3), %s = NOW()
		WHERE %s = $4 AND %s = 'unpublished'
	`, schema.StoreRelease.Table,
		schema.StoreRelease.Status, schema.StoreRelease.ReleaseName, schema.StoreRelease.ReleaseNotes,
		schema.StoreRelease.PublishedAt, schema.StoreRelease.PublishedAt, schema.StoreRelease.UpdatedAt,
		schema.StoreRelease.ID, schema.StoreRelease.Status)

	result, err := repository.pool.Exec(context, query, releaseName, releaseNotes, publishedAt, releaseID)
	if err != nil {
		return fmt.Errorf("postgres: failed to publish release: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.StateConflict("The release is already published")
	}
	return nil
}

// # Shared Write Helpers

// insertRelease persists one release row inside the given transaction.
func insertRelease(context context.Context, transaction pgx.Tx, release *Release) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s,
			%s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, schema.StoreRelease.Table,
		schema.StoreRelease.ID, schema.StoreRelease.BookID, schema.StoreRelease.Position,
		schema.StoreRelease.Status, schema.StoreRelease.PublishedAt, schema.StoreRelease.ReleaseName,
		schema.StoreRelease.ReleaseNotes, schema.StoreRelease.Title, schema.StoreRelease.Description,
		schema.StoreRelease.Price, schema.StoreRelease.ISBN,
		schema.StoreRelease.CoverAssetID, schema.StoreRelease.FileAssetID)

	_, err := transaction.Exec(context, query,
		release.ID, release.BookID, release.Position, release.Status,
		release.PublishedAt, release.ReleaseName, release.ReleaseNotes,
		release.Title, release.Description, release.Price, release.ISBN,
		release.CoverAssetID, release.FileAssetID,
	)
	return dberr.Wrap(err, "insert_release")
}

// replaceCategories synchronizes the release's category links with a
// clear-and-insert batch, the same strategy as every junction table here.
func replaceCategories(context context.Context, transaction pgx.Tx, releaseID string, categoryIDs []string) error {
	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.StoreReleaseCategory.Table, schema.StoreReleaseCategory.ReleaseID)
	if _, err := transaction.Exec(context, unlink, releaseID); err != nil {
		return fmt.Errorf("postgres: failed to clear release categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	link := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.StoreReleaseCategory.Table,
		schema.StoreReleaseCategory.ReleaseID, schema.StoreReleaseCategory.CategoryID)

	batch := &pgx.Batch{}
	for _, categoryID := range categoryIDs {
		batch.Queue(link, releaseID, categoryID)
	}
	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return dberr.Wrap(err, "insert_release_categories")
	}
	return nil
}
