// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thisbookapp/thisbook/internal/models"
	"github.com/thisbookapp/thisbook/internal/store"
)

// ListAuthors returns all author profiles sorted by name.
func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	authors, err := h.store.ListAuthors(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, authors, started)
}

// GetAuthor returns one author by id, falling back to a lookup by linked
// user id so clients can resolve their own profile from a user id.
func (h *Handler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	author, err := h.store.GetAuthor(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		author, err = h.store.GetAuthorByUser(r.Context(), id)
	}
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, author, started)
}

// CreateAuthor adds an author profile. Names are unique, and a user can
// be linked to at most one profile; both collisions surface as 406.
func (h *Handler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CreateAuthorRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	author := &models.Author{
		Name:      req.Name,
		UserID:    req.UserID,
		Biography: req.Biography,
	}

	if err := h.store.CreateAuthor(r.Context(), author); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, author, started)
}

// UpdateAuthor applies non-zero fields. The user link is immutable.
func (h *Handler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.UpdateAuthorRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	author, err := h.store.GetAuthor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if req.Name != "" {
		author.Name = req.Name
	}
	if req.Biography != "" {
		author.Biography = req.Biography
	}

	if err := h.store.UpdateAuthor(r.Context(), author); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, author, started)
}

// DeleteAuthor removes a profile and clears the author link on its books.
func (h *Handler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteAuthor(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": id}, started)
}
