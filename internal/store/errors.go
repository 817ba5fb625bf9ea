// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package store

import "errors"

// Sentinel errors returned by store operations. The API layer maps
// these onto HTTP status codes; raw Badger errors never cross that
// boundary.
var (
	// ErrNotFound means no document exists for the given id or index key.
	ErrNotFound = errors.New("document not found")

	// ErrConflict means a unique field (handle, ISBN, name) is taken.
	ErrConflict = errors.New("unique field already in use")

	// ErrBaselineRole means an attempt to remove the READER role.
	ErrBaselineRole = errors.New("baseline role cannot be removed")
)
