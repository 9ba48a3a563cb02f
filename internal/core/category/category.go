// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

// Package category manages the storefront's browsing taxonomy.
// Categories are flat reference data; releases attach up to three of them.
package category

import "time"

// Category is one entry of the browsing taxonomy.
type Category struct {
	ID string `json:"id"`

	// Key is the URL-safe identifier derived from the default name.
	Key string `json:"key"`

	// Name is the default (English) display name.
	Name string `json:"name"`

	// NameI18n maps language codes to localized display names.
	NameI18n map[string]string `json:"name_i18n,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
