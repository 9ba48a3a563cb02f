// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"context"
	"time"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/sec"
	"github.com/shiori-press/shiori/internal/platform/validate"
)

// # Publication State Machine

/*
transition moves a book to a new lifecycle state, enforcing the role-gated
transition table and the completeness gate.

Description: Admins may reach any state. Transitions that put the book
beyond the publication gate for the first time (to published from anywhere,
or to hidden before the book ever went live) require complete content and
freeze the active draft into an immutable published release. Authors are
limited to the submission loop (unpublished to review and back) and the
visibility toggle of an already-gated book (published to hidden and back).

An illegal pair yields NOT_ALLOWED, which is distinct from malformed input.

Parameters:
  - context: context.Context
  - principal: Principal (The acting user)
  - book: *Book (Hydrated aggregate, caller holds the book lock)
  - target: Status

Returns:
  - error: NotAllowed, aggregated ValidationError from the gate, or storage failures
*/
func (service *Service) transition(context context.Context, principal Principal, book *Book, target Status) error {
	if !target.IsValid() {
		return apperr.ValidationError("Invalid book status", apperr.FieldError{
			Field:   FieldStatus,
			Message: "Must be one of: unpublished, review, published, hidden",
		})
	}

	old := book.Status
	if old == target {
		return nil
	}

	if sec.UserRole(principal.Role).IsAdmin() {
		switch target {
		case StatusPublished:
			if err := service.freezeActiveDraft(context, book); err != nil {
				return err
			}
			if err := service.catalog.AddLatest(context, book.ID, time.Now().UTC()); err != nil {
				return apperr.Internal(err)
			}
		case StatusHidden:
			// Hiding a book that never went live still crosses the gate,
			// so the hidden invariant (a published release exists) holds.
			if old == StatusUnpublished || old == StatusReview {
				if err := service.freezeActiveDraft(context, book); err != nil {
					return err
				}
			}
		}
		return service.commitStatus(context, book, target)
	}

	// Author transition table
	switch {
	case old == StatusUnpublished && target == StatusReview:
		if err := service.completenessGate(book.ActiveRelease()); err != nil {
			return err
		}
	case old == StatusReview && target == StatusUnpublished:
		// Withdrawing a submission needs no gate
	case old == StatusHidden && target == StatusPublished:
		if err := service.catalog.AddLatest(context, book.ID, time.Now().UTC()); err != nil {
			return apperr.Internal(err)
		}
	case old == StatusPublished && target == StatusHidden:
		// Taking a live book off the shelf needs no gate
	default:
		return apperr.NotAllowed("Status change from '" + string(old) + "' to '" + string(target) + "' is not allowed")
	}
	return service.commitStatus(context, book, target)
}

// commitStatus persists the new status under optimistic locking and syncs
// the in-memory aggregate.
func (service *Service) commitStatus(context context.Context, book *Book, target Status) error {
	if err := service.bookRepo.UpdateStatus(context, book.ID, target, book.Version); err != nil {
		return err
	}
	book.Status = target
	book.Version++
	return nil
}

/*
freezeActiveDraft runs the completeness gate and, when the active release is
still a draft, marks it published with the current timestamp.

Description: The draft keeps whatever release name and notes it carries;
admin-driven transitions do not invent them. An active release that is
already published passes through untouched.

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: Aggregated gate failures or storage errors
*/
func (service *Service) freezeActiveDraft(context context.Context, book *Book) error {
	active := book.ActiveRelease()
	if err := service.completenessGate(active); err != nil {
		return err
	}
	if active.Status == ReleasePublished {
		return nil
	}

	now := time.Now().UTC()
	if err := service.bookRepo.PublishDraft(context, active.ID, active.ReleaseName, active.ReleaseNotes, now); err != nil {
		return err
	}
	active.Status = ReleasePublished
	active.PublishedAt = &now
	return nil
}

/*
completenessGate verifies the content a storefront listing requires.

Description: Description, cover image, and ebook file must all be present
before a book may enter review or go live. Every missing field produces its
own entry so the author sees the full gap in one response.

Parameters:
  - release: *Release (The content-bearing active release)

Returns:
  - error: ValidationError aggregating one FieldError per missing field
*/
func (service *Service) completenessGate(release *Release) error {
	var missing []apperr.FieldError
	if release.Description == nil || *release.Description == "" {
		missing = append(missing, apperr.FieldError{Field: FieldDescription, Message: "A description is required before publication"})
	}
	if release.CoverAssetID == nil {
		missing = append(missing, apperr.FieldError{Field: FieldCover, Message: "A cover image is required before publication"})
	}
	if release.FileAssetID == nil {
		missing = append(missing, apperr.FieldError{Field: FieldFile, Message: "A book file is required before publication"})
	}
	if len(missing) > 0 {
		return apperr.ValidationError("Book is incomplete", missing...)
	}
	return nil
}

// # Release Publication

/*
PublishRelease freezes the active draft of an already-live book into a new
published release, or performs the initial go-live when the caller is an
admin.

Description: This is how a new version of a published book reaches readers.
The draft receives the supplied release name and notes, passes the
completeness gate, and becomes immutable. A hidden book has already crossed
the publication gate, so its staged draft freezes the same way and the book
stays off the shelf until the owner flips it back. For books that were
never live, the call degrades to a status transition to published and is
therefore admin-only.

Parameters:
  - context: context.Context
  - principal: Principal (Owner or admin)
  - bookID: string (UUID)
  - releaseName: string (Required, max 100 characters)
  - releaseNotes: string (Optional, max 2000 characters)

Returns:
  - *Release: The freshly published release
  - error: Validation, state-conflict, NotAllowed, or storage failures
*/
func (service *Service) PublishRelease(context context.Context, principal Principal, bookID, releaseName, releaseNotes string) (*Release, error) {
	service.locks.Lock(bookID)
	defer service.locks.Unlock(bookID)

	book, err := service.loadOwned(context, principal, bookID)
	if err != nil {
		return nil, err
	}

	active := book.ActiveRelease()
	if active.Status == ReleasePublished {
		return nil, apperr.StateConflict("The active release is already published")
	}

	validator := &validate.Validator{}
	validator.Required(FieldReleaseName, releaseName).MaxLen(FieldReleaseName, releaseName, 100)
	validator.MaxLen(FieldReleaseNotes, releaseNotes, 2000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	active.ReleaseName = releaseName
	active.ReleaseNotes = releaseNotes

	if book.Status == StatusPublished || book.Status == StatusHidden {
		if err := service.freezeActiveDraft(context, book); err != nil {
			return nil, err
		}
	} else {
		// Not live yet; this is a full go-live and rides the state machine
		if err := service.transition(context, principal, book, StatusPublished); err != nil {
			return nil, err
		}
	}

	return active, nil
}
