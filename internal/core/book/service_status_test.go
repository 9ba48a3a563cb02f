// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/core/book"
	"github.com/shiori-press/shiori/pkg/pointer"
)

// setStatus drives a status change through UpdateBook and returns the error.
func setStatus(f *fixture, principal book.Principal, bookID string, target book.Status) error {
	_, err := f.service.UpdateBook(context.Background(), principal, bookID, book.UpdateBookInput{
		Status: pointer.To(target),
	})
	return err
}

/*
TestTransition_CompletenessGate verifies that submitting an incomplete book
for review reports every missing field at once.
*/
func TestTransition_CompletenessGate(t *testing.T) {
	f := newFixture()
	view, err := f.service.CreateBook(context.Background(), authorAlice, book.CreateBookInput{
		Title:    "Bare Bones",
		Language: "en",
	})
	require.NoError(t, err)

	err = setStatus(f, authorAlice, view.ID, book.StatusReview)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "Book is incomplete", ae.Message)
	require.Len(t, ae.Details, 3)

	var fields []string
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.ElementsMatch(t, []string{"description", "cover", "file"}, fields)
}

/*
TestTransition_AuthorTable walks the author-side transition table: the
submission loop and the visibility toggle are allowed, everything else is
NOT_ALLOWED.
*/
func TestTransition_AuthorTable(t *testing.T) {
	tests := []struct {
		name    string
		from    book.Status
		to      book.Status
		allowed bool
	}{
		{name: "submit_for_review", from: book.StatusUnpublished, to: book.StatusReview, allowed: true},
		{name: "withdraw_submission", from: book.StatusReview, to: book.StatusUnpublished, allowed: true},
		{name: "hide_live_book", from: book.StatusPublished, to: book.StatusHidden, allowed: true},
		{name: "unhide_book", from: book.StatusHidden, to: book.StatusPublished, allowed: true},
		{name: "direct_publish", from: book.StatusUnpublished, to: book.StatusPublished, allowed: false},
		{name: "publish_from_review", from: book.StatusReview, to: book.StatusPublished, allowed: false},
		{name: "hide_draft", from: book.StatusUnpublished, to: book.StatusHidden, allowed: false},
		{name: "unpublish_live_book", from: book.StatusPublished, to: book.StatusUnpublished, allowed: false},
		{name: "review_hidden_book", from: book.StatusHidden, to: book.StatusReview, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			view := completeDraftBook(t, f)

			// Force the starting state as the admin
			if tt.from != book.StatusUnpublished {
				require.NoError(t, setStatus(f, adminEve, view.ID, tt.from))
			}

			err := setStatus(f, authorAlice, view.ID, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				refreshed, err := f.service.GetBook(context.Background(), authorAlice, view.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.to, refreshed.Status)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "NOT_ALLOWED", ae.Code)
		})
	}
}

/*
TestTransition_AdminReachesAnyState verifies the admin override, including
publishing straight out of review.
*/
func TestTransition_AdminReachesAnyState(t *testing.T) {
	f := newFixture()
	view := completeDraftBook(t, f)

	require.NoError(t, setStatus(f, authorAlice, view.ID, book.StatusReview))
	require.NoError(t, setStatus(f, adminEve, view.ID, book.StatusPublished))

	refreshed, err := f.service.GetBook(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusPublished, refreshed.Status)
	assert.Equal(t, book.ReleasePublished, refreshed.ReleaseStatus)

	// And straight back down again
	require.NoError(t, setStatus(f, adminEve, view.ID, book.StatusUnpublished))
}

/*
TestTransition_PublishFreezesDraftAndRegistersCatalog checks the side
effects of going live: the draft becomes an immutable published release and
the book lands in the latest-releases catalogue.
*/
func TestTransition_PublishFreezesDraftAndRegistersCatalog(t *testing.T) {
	f := newFixture()
	view := completeDraftBook(t, f)

	require.NoError(t, setStatus(f, adminEve, view.ID, book.StatusPublished))

	releases, err := f.service.ListReleases(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, book.ReleasePublished, releases[0].Status)
	require.NotNil(t, releases[0].PublishedAt)

	_, registered := f.catalog.entries[view.ID]
	assert.True(t, registered, "publication must register the book in the catalogue")
}

/*
TestTransition_HidingNeverPublishedBookFreezesDraft covers the invariant
that a hidden book always has a published release: an admin hiding a draft
book runs the gate and freezes first.
*/
func TestTransition_HidingNeverPublishedBookFreezesDraft(t *testing.T) {
	f := newFixture()

	// Incomplete book cannot even be hidden
	bare, err := f.service.CreateBook(context.Background(), authorAlice, book.CreateBookInput{
		Title:    "Bare",
		Language: "en",
	})
	require.NoError(t, err)
	err = setStatus(f, adminEve, bare.ID, book.StatusHidden)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Complete book gets frozen on the way to hidden
	view := completeDraftBook(t, f)
	require.NoError(t, setStatus(f, adminEve, view.ID, book.StatusHidden))

	releases, err := f.service.ListReleases(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ReleasePublished, releases[0].Status)

	// The owner can now bring it live without admin involvement
	require.NoError(t, setStatus(f, authorAlice, view.ID, book.StatusPublished))
}

/*
TestTransition_HiddenBookKeepsCatalogTimestamp verifies un-hiding is
idempotent on the catalogue entry: the original publication time survives a
hide/unhide round trip.
*/
func TestTransition_HiddenBookKeepsCatalogTimestamp(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	original := f.catalog.entries[view.ID]
	require.False(t, original.IsZero())

	require.NoError(t, setStatus(f, authorAlice, view.ID, book.StatusHidden))
	require.NoError(t, setStatus(f, authorAlice, view.ID, book.StatusPublished))

	assert.Equal(t, original, f.catalog.entries[view.ID])
}

// # Release Publication

/*
TestPublishRelease_NewVersionOfLiveBook covers the main loop of shipping a
second edition: edit, then publish the draft with a release name.
*/
func TestPublishRelease_NewVersionOfLiveBook(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	_, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Title: pointer.To("Second Edition"),
	})
	require.NoError(t, err)

	release, err := f.service.PublishRelease(context.Background(), authorAlice, view.ID, "v2", "Fixed typos throughout.")
	require.NoError(t, err)

	assert.Equal(t, book.ReleasePublished, release.Status)
	assert.Equal(t, "v2", release.ReleaseName)
	assert.Equal(t, "Fixed typos throughout.", release.ReleaseNotes)
	assert.Equal(t, 1, release.Position)
	require.NotNil(t, release.PublishedAt)

	// The stored sequence agrees
	releases, err := f.service.ListReleases(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, book.ReleasePublished, releases[1].Status)
}

/*
TestPublishRelease_HiddenBookShipsDraft verifies that a hidden book's staged
draft actually freezes: the release name persists, the stored sequence shows
the new edition as published, and the book stays off the shelf until the
owner un-hides it.
*/
func TestPublishRelease_HiddenBookShipsDraft(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	require.NoError(t, setStatus(f, authorAlice, view.ID, book.StatusHidden))

	_, err := f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Title: pointer.To("Quiet Second Edition"),
	})
	require.NoError(t, err)

	release, err := f.service.PublishRelease(context.Background(), authorAlice, view.ID, "v2", "")
	require.NoError(t, err)
	assert.Equal(t, book.ReleasePublished, release.Status)
	assert.Equal(t, "v2", release.ReleaseName)

	// The stored sequence agrees, not just the returned copy
	releases, err := f.service.ListReleases(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, book.ReleasePublished, releases[1].Status)
	assert.Equal(t, "v2", releases[1].ReleaseName)

	// Shipping a release does not put the book back on the shelf
	refreshed, err := f.service.GetBook(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusHidden, refreshed.Status)

	// Un-hiding exposes the new edition
	require.NoError(t, setStatus(f, authorAlice, view.ID, book.StatusPublished))
	public, err := f.service.GetBook(context.Background(), anonymous, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quiet Second Edition", public.Title)
}

/*
TestPublishRelease_Validation exercises name/notes validation and the
already-published guard.
*/
func TestPublishRelease_Validation(t *testing.T) {
	f := newFixture()
	view := publishedBook(t, f)

	// Active release is published and there is nothing to ship
	_, err := f.service.PublishRelease(context.Background(), authorAlice, view.ID, "v2", "")
	assert.Equal(t, "STATE_CONFLICT", apperr.As(err).Code)

	// Stage a draft, then forget the name
	_, err = f.service.UpdateBook(context.Background(), authorAlice, view.ID, book.UpdateBookInput{
		Title: pointer.To("Second Edition"),
	})
	require.NoError(t, err)

	_, err = f.service.PublishRelease(context.Background(), authorAlice, view.ID, "", "")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "release_name", ae.Details[0].Field)
}

/*
TestPublishRelease_GoLiveIsAdminOnly verifies that publishing a book that
was never live rides the state machine, so authors are rejected while
admins go live in one call.
*/
func TestPublishRelease_GoLiveIsAdminOnly(t *testing.T) {
	f := newFixture()
	view := completeDraftBook(t, f)

	_, err := f.service.PublishRelease(context.Background(), authorAlice, view.ID, "v1", "")
	assert.Equal(t, "NOT_ALLOWED", apperr.As(err).Code)

	release, err := f.service.PublishRelease(context.Background(), adminEve, view.ID, "v1", "First edition.")
	require.NoError(t, err)
	assert.Equal(t, book.ReleasePublished, release.Status)

	refreshed, err := f.service.GetBook(context.Background(), authorAlice, view.ID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusPublished, refreshed.Status)
	assert.Equal(t, "v1", release.ReleaseName)
	_, registered := f.catalog.entries[view.ID]
	assert.True(t, registered)
}
