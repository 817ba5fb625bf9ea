// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thisbookapp/thisbook/internal/auth"
	"github.com/thisbookapp/thisbook/internal/models"
)

// ListUsers returns all accounts, password hashes stripped.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	respondData(w, http.StatusOK, out, started)
}

// GetUser returns one account by id.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// GetUserByHandle returns one account by its unique handle.
func (h *Handler) GetUserByHandle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	user, err := h.store.GetUserByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// CreateUser registers an account without issuing a token. Shares the
// signup payload shape.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.SignUpRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, ok := h.buildUser(w, r, &req)
	if !ok {
		return
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, user.Sanitized(), started)
}

// UpdateUser applies non-zero profile fields. The handle is immutable.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.UpdateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Mail != "" {
		user.Mail = req.Mail
	}
	if req.BirthDate != "" {
		birthDate, err := parseDateParam(req.BirthDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid birth date", nil)
			return
		}
		user.BirthDate = birthDate
	}

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// ChangePassword rotates the password after checking the old one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.ChangePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "old password rejected", nil)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "password hashing failed", err)
		return
	}
	user.PasswordHash = hash

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// EnableUser clears the disabled flag, reactivating a soft-deleted account.
func (h *Handler) EnableUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	user, err := h.store.SetUserDisabled(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// AddUserRole grants a role. Adding a role the user already holds is a no-op.
func (h *Handler) AddUserRole(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.RoleRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.store.AddUserRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// RemoveUserRole revokes a role. The baseline READER role cannot be
// removed; that surfaces as 400.
func (h *Handler) RemoveUserRole(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	user, err := h.store.RemoveUserRole(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "role"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// DeleteUser soft-deletes by id: the document stays, authentication stops.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	user, err := h.store.SetUserDisabled(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}

// DeleteUserByHandle soft-deletes by handle.
func (h *Handler) DeleteUserByHandle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	user, err := h.store.SetUserDisabledByHandle(r.Context(), chi.URLParam(r, "handle"), true)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, user.Sanitized(), started)
}
