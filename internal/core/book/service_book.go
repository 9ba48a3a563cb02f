// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"context"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/constants"
	"github.com/shiori-press/shiori/internal/platform/sec"
	"github.com/shiori-press/shiori/internal/platform/validate"
	"github.com/shiori-press/shiori/pkg/pointer"
	"github.com/shiori-press/shiori/pkg/uuid"
)

// # Inputs

// CreateBookInput carries the author-supplied fields for a new book.
type CreateBookInput struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Language    string   `json:"language"`
	Price       *int     `json:"price,omitempty"`
	ISBN        *string  `json:"isbn,omitempty"`
	CategoryIDs []string `json:"categories,omitempty"`

	// OwnerID lets an admin create a book on behalf of another author.
	// Non-admin callers must leave it empty.
	OwnerID string `json:"owner_id,omitempty"`
}

// UpdateBookInput carries a partial edit. Nil fields are left untouched.
//
// A non-nil empty Description or ISBN clears the stored value; a non-nil
// empty CategoryIDs slice clears the category links.
type UpdateBookInput struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Language    *string   `json:"language,omitempty"`
	Price       *int      `json:"price,omitempty"`
	ISBN        *string   `json:"isbn,omitempty"`
	CategoryIDs *[]string `json:"categories,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

// hasContentEdit reports whether the input touches release content fields,
// the ones governed by the copy-on-write versioning rules.
func (in UpdateBookInput) hasContentEdit() bool {
	return in.Title != nil ||
		in.Description != nil ||
		in.Price != nil ||
		in.ISBN != nil ||
		in.CategoryIDs != nil
}

// # Book Lookups

/*
GetBook fetches a single book projected for the caller.

Description: Owners and admins see the active release, drafts included,
with a presigned file link. Everyone else sees the latest published release
of a published book. Hidden and pre-publication books are indistinguishable
from missing ones for the public.

Parameters:
  - context: context.Context
  - principal: Principal (May be anonymous)
  - bookID: string (UUID)

Returns:
  - *View: The projected read model
  - error: ErrNotFound for missing or invisible books
*/
func (service *Service) GetBook(context context.Context, principal Principal, bookID string) (*View, error) {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}

	// Owner/admin projection: active release, file link included
	if err := service.authorize(principal, book); err == nil {
		return service.view(context, book, book.ActiveRelease(), true)
	}

	// Public projection: only published books, through published content
	if book.Status != StatusPublished {
		return nil, apperr.NotFound("Book")
	}
	published := book.LatestPublishedRelease()
	if published == nil {
		return nil, apperr.NotFound("Book")
	}
	return service.view(context, book, published, false)
}

/*
ListBooks returns a paginated slice of an author's own books.

Description: Admins may list any author's shelf by passing an explicit
ownerID; authors are always scoped to themselves.

Parameters:
  - context: context.Context
  - principal: Principal
  - ownerID: string (Target author, empty = principal)
  - limit: int
  - offset: int

Returns:
  - []*View: Book projections through each active release
  - int: Total count for pagination metadata
  - error: Authorization or retrieval failures
*/
func (service *Service) ListBooks(context context.Context, principal Principal, ownerID string, limit, offset int) ([]*View, int, error) {
	if principal.UserID == "" {
		return nil, 0, apperr.Unauthorized("Authentication required")
	}
	if ownerID == "" {
		ownerID = principal.UserID
	}
	if ownerID != principal.UserID && !sec.UserRole(principal.Role).IsAdmin() {
		return nil, 0, apperr.Forbidden("You may only list your own books")
	}

	books, total, err := service.bookRepo.ListByOwner(context, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*View, 0, len(books))
	for _, book := range books {
		view, err := service.view(context, book, book.ActiveRelease(), true)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

/*
ListPublishedBooks returns the public storefront listing.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*View: Projections through each book's latest published release
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListPublishedBooks(context context.Context, limit, offset int) ([]*View, int, error) {
	books, total, err := service.bookRepo.ListPublished(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*View, 0, len(books))
	for _, book := range books {
		published := book.LatestPublishedRelease()
		if published == nil {
			continue
		}
		view, err := service.view(context, book, published, false)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

/*
ListReleases returns the full ordered release history of a book.

Parameters:
  - context: context.Context
  - principal: Principal (Must be the owner or an admin)
  - bookID: string (UUID)

Returns:
  - []*Release: Oldest first, last element is the active release
  - error: NotFound or authorization failures
*/
func (service *Service) ListReleases(context context.Context, principal Principal, bookID string) ([]*Release, error) {
	book, err := service.loadOwned(context, principal, bookID)
	if err != nil {
		return nil, err
	}
	return book.Releases, nil
}

// # Book Management

/*
CreateBook initialises a new book with its first draft release.

Description: Performs deep business validation on the metadata, generates
stable UUID v7 identities for book and release, and persists both in a
single transaction. The book starts unpublished with an empty history.

Parameters:
  - context: context.Context
  - principal: Principal (Author or admin)
  - input: CreateBookInput

Returns:
  - *View: The created book projected through its draft
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) CreateBook(context context.Context, principal Principal, input CreateBookInput) (*View, error) {
	if principal.UserID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if !sec.UserRole(principal.Role).AtLeast(sec.RoleAuthor) {
		return nil, apperr.Forbidden("Only authors can create books")
	}

	ownerID := principal.UserID
	if input.OwnerID != "" && input.OwnerID != principal.UserID {
		if !sec.UserRole(principal.Role).IsAdmin() {
			return nil, apperr.Forbidden("Only admins can create books for other authors")
		}
		ownerID = input.OwnerID
	}

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	validator.Required(FieldLanguage, input.Language).Language(FieldLanguage, input.Language)
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, 5000)
	}
	if input.Price != nil {
		validator.Price(FieldPrice, *input.Price)
	}
	if input.ISBN != nil && *input.ISBN != "" {
		validator.ISBN(FieldISBN, *input.ISBN)
	}
	validator.MaxItems(FieldCategories, len(input.CategoryIDs), constants.MaxCategoriesPerRelease)
	for _, categoryID := range input.CategoryIDs {
		validator.UUID(FieldCategories, categoryID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	book := &Book{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Language: input.Language,
		Status:   StatusUnpublished,
		Version:  1,
	}
	first := &Release{
		ID:          uuid.New(),
		BookID:      book.ID,
		Position:    0,
		Status:      ReleaseUnpublished,
		Title:       input.Title,
		Description: normalizeOptional(input.Description),
		Price:       input.Price,
		ISBN:        normalizeOptional(input.ISBN),
		CategoryIDs: input.CategoryIDs,
	}

	if err := service.bookRepo.Create(context, book, first); err != nil {
		return nil, err
	}

	book.Releases = []*Release{first}
	return service.view(context, book, first, true)
}

/*
UpdateBook applies a partial edit to a book's content, language, or status.

Description: Content edits flow through the copy-on-write versioning engine.
If the active release is published, it is cloned into a fresh draft and the
edit lands on the clone; published history is never touched. Language lives
on the book itself and is locked once the book has been published. A status
field in the same request is applied last, through the publication state
machine, against the post-edit content.

Parameters:
  - context: context.Context
  - principal: Principal (Owner or admin)
  - bookID: string (UUID)
  - input: UpdateBookInput

Returns:
  - *View: The book projected through its active release after the edit
  - error: Validation, state-conflict, or persistence errors
*/
func (service *Service) UpdateBook(context context.Context, principal Principal, bookID string, input UpdateBookInput) (*View, error) {
	service.locks.Lock(bookID)
	defer service.locks.Unlock(bookID)

	book, err := service.loadOwned(context, principal, bookID)
	if err != nil {
		return nil, err
	}

	// Field-level validation before any state is touched
	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, 5000)
	}
	if input.Language != nil {
		validator.Language(FieldLanguage, *input.Language)
	}
	if input.Price != nil {
		validator.Price(FieldPrice, *input.Price)
	}
	if input.ISBN != nil && *input.ISBN != "" {
		validator.ISBN(FieldISBN, *input.ISBN)
	}
	if input.CategoryIDs != nil {
		validator.MaxItems(FieldCategories, len(*input.CategoryIDs), constants.MaxCategoriesPerRelease)
		for _, categoryID := range *input.CategoryIDs {
			validator.UUID(FieldCategories, categoryID)
		}
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Language is frozen once the book has crossed the publication gate
	if input.Language != nil && *input.Language != book.Language {
		if book.Status == StatusPublished || book.Status == StatusHidden {
			return nil, apperr.StateConflict("Language cannot be changed after publication")
		}
		if err := service.bookRepo.UpdateLanguage(context, bookID, *input.Language, book.Version); err != nil {
			return nil, err
		}
		book.Language = *input.Language
		book.Version++
	}

	if input.hasContentEdit() {
		draft, cloned := service.draftForEdit(book)
		applyContentEdit(draft, input)

		if cloned {
			if err := service.bookRepo.AppendRelease(context, bookID, book.Version, draft); err != nil {
				return nil, err
			}
			book.Releases = append(book.Releases, draft)
			book.Version++
		} else {
			if err := service.bookRepo.UpdateDraft(context, draft); err != nil {
				return nil, err
			}
		}
	}

	if input.Status != nil {
		if err := service.transition(context, principal, book, *input.Status); err != nil {
			return nil, err
		}
	}

	// Re-read so the projection reflects every write of this request
	book, err = service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}
	return service.view(context, book, book.ActiveRelease(), true)
}

// applyContentEdit copies the non-nil input fields onto the draft.
func applyContentEdit(draft *Release, input UpdateBookInput) {
	if input.Title != nil {
		draft.Title = *input.Title
	}
	if input.Description != nil {
		draft.Description = normalizeOptional(input.Description)
	}
	if input.Price != nil {
		draft.Price = input.Price
	}
	if input.ISBN != nil {
		draft.ISBN = normalizeOptional(input.ISBN)
	}
	if input.CategoryIDs != nil {
		draft.CategoryIDs = *input.CategoryIDs
	}
}

// normalizeOptional maps empty strings to nil so "clear this field" and
// "field absent" store identically.
func normalizeOptional(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return pointer.To(*value)
}
