// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// Comment types scope a comment to the kind of thing it discusses.
const (
	CommentTypeBook  = "BOOK"
	CommentTypeClub  = "CLUB"
	CommentTypeEvent = "EVENT"
)

// Comment is a user remark attached to a book, club, or event.
type Comment struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TargetID  string    `json:"target_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommentRequest is the payload for POST /comment.
type CreateCommentRequest struct {
	Type     string `json:"type" validate:"required,oneof=BOOK CLUB EVENT"`
	TargetID string `json:"target_id" validate:"required,uuid"`
	UserID   string `json:"user_id" validate:"required,uuid"`
	Title    string `json:"title" validate:"omitempty,max=240"`
	Content  string `json:"content" validate:"required,min=1,max=4000"`
}

// UpdateCommentRequest is the payload for PUT /comment/{id}.
type UpdateCommentRequest struct {
	Title   string `json:"title" validate:"omitempty,max=240"`
	Content string `json:"content" validate:"omitempty,min=1,max=4000"`
}
