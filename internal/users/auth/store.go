// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Session Data Access

// SessionRepository defines the contract for volatile refresh-token sessions.
//
// Sessions are keyed by the SHA-256 hash of the refresh token; the plain
// token never touches the store.
type SessionRepository interface {

	/*
		Create registers a session for the userID under the token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, tokenHash, userID string, ttl time.Duration) error

	/*
		Resolve returns the userID owning the session, or apperr.Unauthorized
		when the session is absent, expired, or revoked.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - string: UserID
		  - error: Resolution failures
	*/
	Resolve(context context.Context, tokenHash string) (string, error)

	/*
		Revoke removes a single session.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Deletion failures
	*/
	Revoke(context context.Context, tokenHash string) error

	/*
		RevokeOthers removes every session of the userID except the one
		identified by keepHash. Pass an empty keepHash to revoke all.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - keepHash: string

		Returns:
		  - error: Deletion failures
	*/
	RevokeOthers(context context.Context, userID, keepHash string) error
}
