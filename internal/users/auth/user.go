// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package auth implements account identity and session management for Shiori.

It covers registration, credential verification, and the JWT/refresh-token
session lifecycle. Accounts live in PostgreSQL; refresh sessions are
volatile and live in Redis with a TTL matching their expiry.

# Architecture

  - Service: Orchestrates registration, login, and token rotation.
  - UserRepository: PostgreSQL access to the users.account table.
  - SessionRepository: Redis access for hashed refresh tokens.
*/
package auth

import (
	"time"

	"github.com/shiori-press/shiori/internal/platform/sec"
)

// # Domain Entities

// User represents a registered Shiori account.
//
// New registrations receive the author role: Shiori is a self-publishing
// storefront and every account may maintain its own shelf.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
)
