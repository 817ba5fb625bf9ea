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

// ListEvents returns all events, newest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, events, started)
}

// GetEvent returns one event by id.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	event, err := h.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, event, started)
}

// CreateEvent schedules an event. The admin becomes the first member.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CreateEventRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid event date", nil)
		return
	}

	event := &models.Event{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Date:        date,
		AdminID:     req.AdminID,
	}

	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, event, started)
}

// SubscribeEvent adds a user to an event, mirrored on both documents.
func (h *Handler) SubscribeEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.SubscriptionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	event, err := h.store.SubscribeEvent(r.Context(), req.TargetID, req.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, event, started)
}

// UnsubscribeEvent removes a user from an event on both documents.
func (h *Handler) UnsubscribeEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.SubscriptionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	event, err := h.store.UnsubscribeEvent(r.Context(), req.TargetID, req.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, event, started)
}

// UpdateEvent applies non-zero fields.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.UpdateEventRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	event, err := h.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.Date != "" {
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid event date", nil)
			return
		}
		event.Date = date
	}

	if err := h.store.UpdateEvent(r.Context(), event); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, event, started)
}

// DeleteEvent removes the event and detaches every member.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteEvent(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": id}, started)
}
