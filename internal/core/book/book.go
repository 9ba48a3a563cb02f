// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package book defines the core domain of the Shiori storefront: self-published
books and their versioned releases.

A Book is the stable identity an author owns. Its content lives in an ordered
sequence of Releases, of which the last is the active one. Published releases
are immutable history; editing a book whose active release is published first
clones that release into a new unpublished draft (copy-on-write), then applies
the edit to the draft.

Core Responsibility:

  - Versioning: Copy-on-write release sequence with immutable published history.
  - Lifecycle: The publication state machine (unpublished, review, published, hidden).
  - Assets: Cover images and ebook files with structural sharing across releases.

This package acts as the source of truth for all content-related data models.
*/
package book

import "time"

// # Domain Enums

// Status represents the publication status of a book.
type Status string

const (
	// StatusUnpublished is the initial state; only the owner can see the book.
	StatusUnpublished Status = "unpublished"

	// StatusReview indicates the book is awaiting editorial approval.
	StatusReview Status = "review"

	// StatusPublished indicates the book is live in the storefront.
	StatusPublished Status = "published"

	// StatusHidden indicates the book was withdrawn from the storefront
	// after having passed the publication gate at least once.
	StatusHidden Status = "hidden"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case
		StatusUnpublished,
		StatusReview,
		StatusPublished,
		StatusHidden:
		return true
	}
	return false
}

// ReleaseStatus represents the lifecycle state of a single release.
type ReleaseStatus string

const (
	// ReleaseUnpublished marks a mutable draft at the tail of the sequence.
	ReleaseUnpublished ReleaseStatus = "unpublished"

	// ReleasePublished marks an immutable, historical release.
	ReleasePublished ReleaseStatus = "published"
)

// IsValid reports whether s is a recognised [ReleaseStatus] value.
func (s ReleaseStatus) IsValid() bool {
	return s == ReleaseUnpublished || s == ReleasePublished
}

// # Core Entities

// Book is the central aggregate of the Shiori domain.
// It carries identity, ownership, and lifecycle state; all content fields
// live on its [Release] sequence.
type Book struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Language string `json:"language"` // ISO-639-1 code (e.g. "en", "de")
	Status   Status `json:"status"`

	// Version is the optimistic concurrency counter. Every mutation of the
	// release sequence or lifecycle state bumps it by one.
	Version int `json:"version"`

	// Releases is the full ordered sequence, oldest first.
	// The last element is the active release.
	Releases []*Release `json:"releases,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveRelease returns the last release in the sequence, or nil when the
// sequence was not hydrated.
func (b *Book) ActiveRelease() *Release {
	if len(b.Releases) == 0 {
		return nil
	}
	return b.Releases[len(b.Releases)-1]
}

// LatestPublishedRelease returns the most recent release with status
// published, or nil if the book was never published.
func (b *Book) LatestPublishedRelease() *Release {
	for i := len(b.Releases) - 1; i >= 0; i-- {
		if b.Releases[i].Status == ReleasePublished {
			return b.Releases[i]
		}
	}
	return nil
}

// Release is one immutable-once-published version of a book's content.
type Release struct {
	ID     string `json:"id"`
	BookID string `json:"book_id"`

	// Position is the zero-based index of the release within the book's
	// sequence. It is assigned once and never changes.
	Position int `json:"position"`

	Status      ReleaseStatus `json:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`

	// ReleaseName and ReleaseNotes describe the release itself, not the
	// book content. Name is required at publication time.
	ReleaseName  string `json:"release_name,omitempty"`
	ReleaseNotes string `json:"release_notes,omitempty"`

	// # Content Fields
	// These are the fields the copy-on-write clone carries forward.
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Price        *int     `json:"price,omitempty"` // Cents
	ISBN         *string  `json:"isbn,omitempty"`
	CoverAssetID *string  `json:"cover_asset_id,omitempty"`
	FileAssetID  *string  `json:"file_asset_id,omitempty"`
	CategoryIDs  []string `json:"categories,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone produces a new unpublished draft carrying this release's content
// fields. Identity, position, status, and release metadata are reset.
func (r *Release) Clone(id string, position int) *Release {
	draft := &Release{
		ID:           id,
		BookID:       r.BookID,
		Position:     position,
		Status:       ReleaseUnpublished,
		Title:        r.Title,
		Description:  copyPtr(r.Description),
		Price:        copyPtr(r.Price),
		ISBN:         copyPtr(r.ISBN),
		CoverAssetID: copyPtr(r.CoverAssetID),
		FileAssetID:  copyPtr(r.FileAssetID),
	}
	if len(r.CategoryIDs) > 0 {
		draft.CategoryIDs = append([]string(nil), r.CategoryIDs...)
	}
	return draft
}

// copyPtr duplicates a pointer so the clone never aliases the original.
func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// # Asset Entities

// CoverAsset is the metadata record of one stored cover image binary.
// A single record may be referenced by several releases (structural sharing).
type CoverAsset struct {
	ID          string    `json:"id"`
	ObjectKey   string    `json:"-"` // Bucket path, never exposed directly
	ContentType string    `json:"content_type"`
	Blurhash    string    `json:"blurhash"`
	AspectRatio string    `json:"aspect_ratio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FileAsset is the metadata record of one stored ebook binary.
type FileAsset struct {
	ID          string    `json:"id"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"content_type"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Principal

// Principal identifies the acting user for authorization decisions.
// A zero-value Principal is an anonymous caller.
type Principal struct {
	UserID string
	Role   string
}

// # Projections

// View is the read model of a book projected through one of its releases.
// For owners and admins the projection uses the active release; for the
// public catalogue it uses the latest published release.
type View struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Language string `json:"language"`
	Status   Status `json:"status"`
	Version  int    `json:"version"`

	ReleaseID     string        `json:"release_id"`
	ReleaseStatus ReleaseStatus `json:"release_status"`
	ReleaseCount  int           `json:"release_count"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`

	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Price       *int     `json:"price,omitempty"`
	ISBN        *string  `json:"isbn,omitempty"`
	CategoryIDs []string `json:"categories,omitempty"`

	Cover *CoverInfo `json:"cover,omitempty"`
	File  *FileInfo  `json:"file,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CoverInfo is the client-facing shape of an attached cover image.
type CoverInfo struct {
	ID          string `json:"id"`
	URL         string `json:"url,omitempty"` // Presigned, short-lived
	Blurhash    string `json:"blurhash"`
	AspectRatio string `json:"aspect_ratio"`
}

// FileInfo is the client-facing shape of an attached ebook file.
type FileInfo struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"` // Presigned, owner/buyer only
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID           = "id"
	FieldOwnerID      = "owner_id"
	FieldLanguage     = "language"
	FieldStatus       = "status"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldPrice        = "price"
	FieldISBN         = "isbn"
	FieldCategories   = "categories"
	FieldCover        = "cover"
	FieldFile         = "file"
	FieldReleaseName  = "release_name"
	FieldReleaseNotes = "release_notes"
)
