// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers and cookie configuration.
  - Storefront: Supported languages, price bounds, upload limits.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "shiori-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	//
	// Raw binary uploads (covers, ebook files) stream through the request body,
	// so this is considerably longer than a typical JSON API would need.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "shiori.press"

	// RefreshTokenCookieName is the name of the cookie that stores the refresh token.
	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath is the scoped path for the refresh token cookie.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # Storefront Rules

const (
	// PriceMin is the lowest allowed book price, in cents. Zero means free.
	PriceMin = 0

	// PriceMax is the highest allowed book price, in cents.
	PriceMax = 100000

	// MaxCategoriesPerRelease caps the category references a single release may carry.
	MaxCategoriesPerRelease = 3

	// MaxCoverUploadBytes caps the size of a cover image upload (10 MiB).
	MaxCoverUploadBytes = 10 << 20

	// MaxFileUploadBytes caps the size of an ebook file upload (100 MiB).
	MaxFileUploadBytes = 100 << 20
)

// SupportedLanguages is the closed set of language codes a book may declare.
//
// The storefront renders per-language sections; adding a language here is a
// product decision, not a configuration one.
var SupportedLanguages = []string{"en", "de", "fr", "es", "it", "pt", "nl", "ja"}

// IsSupportedLanguage reports whether code is in [SupportedLanguages].
func IsSupportedLanguage(code string) bool {
	for _, lang := range SupportedLanguages {
		if lang == code {
			return true
		}
	}
	return false
}

// # Catalog

const (
	// CatalogLatestKey is the Redis key of the "latest published books" sorted set.
	CatalogLatestKey = "catalog:latest"

	// CatalogLatestDefaultSize is how many entries the latest feed returns by default.
	CatalogLatestDefaultSize = 20
)

// # HTTP Headers

const (
	HeaderXRequestID         = "X-Request-ID"
	HeaderXRealIP            = "X-Real-IP"
	HeaderXForwardedFor      = "X-Forwarded-For"
	HeaderOrigin             = "Origin"
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
)

// # Database Schemas

const (
	SchemaStore = "store"
	SchemaUsers = "users"
)
