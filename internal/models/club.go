// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// Club is a reading group. Name is unique. AdminID is the founding
// user, who is always the first member. Members holds user ids and is
// mirrored on each member's Clubs list.
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AdminID     string    `json:"admin_id"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateClubRequest is the payload for POST /club.
type CreateClubRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	AdminID     string `json:"admin_id" validate:"required,uuid"`
}

// UpdateClubRequest is the payload for PUT /club/{id}.
type UpdateClubRequest struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// SubscriptionRequest joins or leaves a club or event.
type SubscriptionRequest struct {
	TargetID string `json:"target_id" validate:"required,uuid"`
	UserID   string `json:"user_id" validate:"required,uuid"`
}
