// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// Book is a catalog document. ISBN is unique across the store.
// AuthorID links to the author document that wrote it.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ISBN        string    `json:"isbn"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	ReleaseDate time.Time `json:"release_date"`

	// Categories holds category document ids.
	Categories []string `json:"categories"`
	AuthorID   string   `json:"author_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBookRequest is the payload for POST /book. Categories carries
// category names; the handler resolves them to ids.
type CreateBookRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=240"`
	ISBN        string   `json:"isbn" validate:"required,min=10,max=17"`
	Description string   `json:"description" validate:"omitempty,max=4000"`
	CoverURL    string   `json:"cover_url" validate:"omitempty,url"`
	ReleaseDate string   `json:"release_date" validate:"required,datetime=2006-01-02"`
	Categories  []string `json:"categories" validate:"omitempty,dive,min=1"`
	AuthorID    string   `json:"author_id" validate:"omitempty,uuid"`
}

// UpdateBookRequest is the payload for PUT /book/{id}. Zero-valued
// fields are left unchanged.
type UpdateBookRequest struct {
	Title       string   `json:"title" validate:"omitempty,min=1,max=240"`
	Description string   `json:"description" validate:"omitempty,max=4000"`
	CoverURL    string   `json:"cover_url" validate:"omitempty,url"`
	ReleaseDate string   `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Categories  []string `json:"categories" validate:"omitempty,dive,min=1"`
}
