// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thisbookapp/thisbook/internal/models"
)

// ListComments returns all comments, newest first.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	comments, err := h.store.ListComments(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, comments, started)
}

// ListCommentsByType filters comments by target kind (BOOK, CLUB, EVENT).
func (h *Handler) ListCommentsByType(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	commentType := strings.ToUpper(chi.URLParam(r, "type"))
	switch commentType {
	case models.CommentTypeBook, models.CommentTypeClub, models.CommentTypeEvent:
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown comment type", nil)
		return
	}

	comments, err := h.store.ListCommentsByType(r.Context(), commentType)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, comments, started)
}

// GetComment returns one comment by id.
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	comment, err := h.store.GetComment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, comment, started)
}

// CreateComment attaches a comment to a book, club, or event.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CreateCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	comment := &models.Comment{
		Type:     req.Type,
		TargetID: req.TargetID,
		UserID:   req.UserID,
		Title:    req.Title,
		Content:  req.Content,
	}

	if err := h.store.CreateComment(r.Context(), comment); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, comment, started)
}

// UpdateComment edits title and content. Type, target, and author are
// immutable.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.UpdateCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	comment, err := h.store.GetComment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if req.Title != "" {
		comment.Title = req.Title
	}
	if req.Content != "" {
		comment.Content = req.Content
	}

	if err := h.store.UpdateComment(r.Context(), comment); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, comment, started)
}

// DeleteComment removes a comment.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteComment(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": id}, started)
}
