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

// ListCategories returns all categories sorted by name.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, categories, started)
}

// CreateCategory adds a category. Duplicate names are 406.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CreateCategoryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, category, started)
}

// DeleteCategory removes a category. References from books and users
// are left dangling; clients treat unknown ids as removed.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": id}, started)
}

// SetUserCategories replaces a user's category affinities. The payload
// carries category names, resolved against the category store.
func (h *Handler) SetUserCategories(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CategoriesRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ids, err := h.store.ResolveCategoryNames(r.Context(), req.Categories)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown category name", nil)
			return
		}
		respondStoreError(w, err)
		return
	}

	user, err := h.store.SetUserCategories(r.Context(), chi.URLParam(r, "id"), ids)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}
