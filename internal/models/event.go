// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// Event is a scheduled gathering. Like clubs, membership is mirrored
// on each member's Events list.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Date        time.Time `json:"date"`
	AdminID     string    `json:"admin_id"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEventRequest is the payload for POST /event.
type CreateEventRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Location    string `json:"location" validate:"omitempty,max=240"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	AdminID     string `json:"admin_id" validate:"required,uuid"`
}

// UpdateEventRequest is the payload for PUT /event/{id}.
type UpdateEventRequest struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Location    string `json:"location" validate:"omitempty,max=240"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
