// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package catalog maintains the storefront's "latest releases" discovery feed.

Membership lives in a Redis sorted set scored by first publication time.
A book enters the set exactly once, when it first goes live; re-publishing
after a hide does not move it, so the feed reflects discovery order rather
than visibility churn. Hidden books stay members and are filtered out at
read time when their projection resolves to not-found.
*/
package catalog

import "time"

// Entry is one membership record of the latest-releases feed.
type Entry struct {
	BookID      string    `json:"book_id"`
	PublishedAt time.Time `json:"published_at"`
}
