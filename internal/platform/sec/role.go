// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Roles are carried as a claim on the authenticated principal; no call site
// may maintain its own allow-list of privileged user ids.
type UserRole string

const (
	// Unrestricted system access, including the review/publish approval flow
	RoleAdmin UserRole = "admin"

	// Can create and manage their own books and releases
	RoleAuthor UserRole = "author"

	// Default role for standard registered storefront users
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// IsAdmin reports whether the role grants administrative privileges.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleAuthor:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
