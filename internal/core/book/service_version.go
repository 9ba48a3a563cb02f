// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import "github.com/shiori-press/shiori/pkg/uuid"

// # Versioning Engine

/*
draftForEdit returns the release an edit must land on, applying the
copy-on-write rule.

Description: If the active release is still an unpublished draft, it is
returned as-is and the edit mutates it in place. If the active release is
published, it is cloned into a fresh draft carrying all content fields,
appended in memory behind it. The caller persists the clone via
AppendRelease so clone and edit commit atomically.

Parameters:
  - book: *Book (Hydrated aggregate, caller holds the book lock)

Returns:
  - *Release: The draft to edit
  - bool: True when the draft is a new clone the caller must append
*/
func (service *Service) draftForEdit(book *Book) (*Release, bool) {
	active := book.ActiveRelease()
	if active.Status == ReleaseUnpublished {
		return active, false
	}

	clone := active.Clone(uuid.New(), len(book.Releases))
	return clone, true
}
