// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thisbookapp/thisbook/internal/models"
)

// ListClubs returns all clubs sorted by name.
func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	clubs, err := h.store.ListClubs(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, clubs, started)
}

// GetClub returns one club by id.
func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	club, err := h.store.GetClub(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, club, started)
}

// CreateClub founds a club. The admin becomes the first member and the
// club lands on the admin's club list. Duplicate names are 406.
func (h *Handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CreateClubRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	club := &models.Club{
		Name:        req.Name,
		Description: req.Description,
		AdminID:     req.AdminID,
	}

	if err := h.store.CreateClub(r.Context(), club); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, club, started)
}

// SubscribeClub adds a user to a club, mirrored on both documents.
// Subscribing twice is a no-op.
func (h *Handler) SubscribeClub(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.SubscriptionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	club, err := h.store.SubscribeClub(r.Context(), req.TargetID, req.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, club, started)
}

// UnsubscribeClub removes a user from a club on both documents.
func (h *Handler) UnsubscribeClub(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.SubscriptionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	club, err := h.store.UnsubscribeClub(r.Context(), req.TargetID, req.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, club, started)
}

// UpdateClub applies non-zero fields. Admin and membership are managed
// through their own operations.
func (h *Handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.UpdateClubRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	club, err := h.store.GetClub(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if req.Name != "" {
		club.Name = req.Name
	}
	if req.Description != "" {
		club.Description = req.Description
	}

	if err := h.store.UpdateClub(r.Context(), club); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, club, started)
}

// DeleteClub removes the club and detaches every member.
func (h *Handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteClub(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": id}, started)
}
