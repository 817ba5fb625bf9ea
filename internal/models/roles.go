// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

// Role constants. Every account carries RoleReader; it is the baseline
// and cannot be removed.
const (
	RoleReader = "READER"
	RoleWriter = "WRITER"
	RoleAdmin  = "ADMIN"
)

// ValidRoles lists all recognized role tags.
var ValidRoles = []string{RoleReader, RoleWriter, RoleAdmin}

// IsValidRole reports whether role is a recognized tag.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HasRole reports whether roles contains role.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeRoles deduplicates roles and guarantees RoleReader is present.
// Unrecognized tags are dropped.
func NormalizeRoles(roles []string) []string {
	out := []string{RoleReader}
	seen := map[string]bool{RoleReader: true}
	for _, r := range roles {
		if !seen[r] && IsValidRole(r) {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
