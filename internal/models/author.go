// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// Author is a writer profile. Name is unique. UserID optionally links
// the profile to an account, so lookups fall back from author id to
// the linked user id.
type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id,omitempty"`
	Biography string    `json:"biography,omitempty"`
	Books     []string  `json:"books"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAuthorRequest is the payload for POST /author.
type CreateAuthorRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	UserID    string `json:"user_id" validate:"omitempty,uuid"`
	Biography string `json:"biography" validate:"omitempty,max=4000"`
}

// UpdateAuthorRequest is the payload for PUT /author/{id}.
type UpdateAuthorRequest struct {
	Name      string `json:"name" validate:"omitempty,min=1,max=120"`
	Biography string `json:"biography" validate:"omitempty,max=4000"`
}
