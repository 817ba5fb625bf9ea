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

// ListBooks returns the full catalog sorted by title.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, books, started)
}

// GetBook returns one book by id.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	book, err := h.store.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, book, started)
}

// ListBooksByCategory filters the catalog by category. The path segment
// may be a category id or a category name.
func (h *Handler) ListBooksByCategory(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	param := chi.URLParam(r, "category")

	categoryID := param
	if ids, err := h.store.ResolveCategoryNames(r.Context(), []string{param}); err == nil && len(ids) == 1 {
		categoryID = ids[0]
	}

	books, err := h.store.ListBooksByCategory(r.Context(), categoryID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, books, started)
}

// ListBooksByReleaseDate filters the catalog to books released on the
// given YYYY-MM-DD day.
func (h *Handler) ListBooksByReleaseDate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	date, err := parseDateParam(chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid release date", nil)
		return
	}

	books, err := h.store.ListBooksByReleaseDate(r.Context(), date)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, books, started)
}

// CreateBook adds a catalog entry. Duplicate ISBNs are rejected with 406;
// category names must resolve and the author id, when given, must exist.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CreateBookRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	releaseDate, err := parseDateParam(req.ReleaseDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid release date", nil)
		return
	}

	book := &models.Book{
		Title:       req.Title,
		ISBN:        req.ISBN,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		ReleaseDate: releaseDate,
		AuthorID:    req.AuthorID,
	}

	if len(req.Categories) > 0 {
		ids, err := h.store.ResolveCategoryNames(r.Context(), req.Categories)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown category name", nil)
				return
			}
			respondStoreError(w, err)
			return
		}
		book.Categories = ids
	}

	if err := h.store.CreateBook(r.Context(), book); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, book, started)
}

// UpdateBook applies non-zero fields. ISBN and author link are immutable.
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.UpdateBookRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	book, err := h.store.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Description != "" {
		book.Description = req.Description
	}
	if req.CoverURL != "" {
		book.CoverURL = req.CoverURL
	}
	if req.ReleaseDate != "" {
		releaseDate, err := parseDateParam(req.ReleaseDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid release date", nil)
			return
		}
		book.ReleaseDate = releaseDate
	}
	if len(req.Categories) > 0 {
		ids, err := h.store.ResolveCategoryNames(r.Context(), req.Categories)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown category name", nil)
				return
			}
			respondStoreError(w, err)
			return
		}
		book.Categories = ids
	}

	if err := h.store.UpdateBook(r.Context(), book); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, book, started)
}

// DeleteBook removes a book and detaches it from its author.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if err := h.store.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")}, started)
}
