// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/thisbookapp/thisbook/internal/auth"
	"github.com/thisbookapp/thisbook/internal/logging"
	"github.com/thisbookapp/thisbook/internal/metrics"
	"github.com/thisbookapp/thisbook/internal/models"
	"github.com/thisbookapp/thisbook/internal/store"
)

// SignUp registers a new account and returns a fresh token.
// Duplicate handles are rejected with 406.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.SignUpRequest
	if !decodeRequest(w, r, &req) {
		metrics.RecordAuthAttempt("signup", false)
		return
	}

	user, ok := h.buildUser(w, r, &req)
	if !ok {
		metrics.RecordAuthAttempt("signup", false)
		return
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		metrics.RecordAuthAttempt("signup", false)
		respondStoreError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "token generation failed", err)
		return
	}

	metrics.RecordAuthAttempt("signup", true)
	metrics.RecordTokenIssued()
	logging.Info().Str("handle", sanitizeLogValue(user.Handle)).Msg("account created")

	respondData(w, http.StatusCreated, &models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Sanitized(),
	}, started)
}

// buildUser turns a signup payload into a user document: hashes the
// password, parses the birth date, and resolves category names to ids.
// Writes the error response itself and reports success via the bool.
func (h *Handler) buildUser(w http.ResponseWriter, r *http.Request, req *models.SignUpRequest) (*models.User, bool) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "password hashing failed", err)
		return nil, false
	}

	user := &models.User{
		Name:         req.Name,
		Handle:       req.Handle,
		Mail:         req.Mail,
		PasswordHash: hash,
		Roles:        req.Roles,
	}

	if req.BirthDate != "" {
		birthDate, err := parseDateParam(req.BirthDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid birth date", nil)
			return nil, false
		}
		user.BirthDate = birthDate
	}

	if len(req.Categories) > 0 {
		ids, err := h.store.ResolveCategoryNames(r.Context(), req.Categories)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown category name", nil)
				return nil, false
			}
			respondStoreError(w, err)
			return nil, false
		}
		user.Categories = ids
	}

	return user, true
}

// SignIn exchanges handle + password for a token. Unknown handles and
// wrong passwords produce identical 404 responses so the endpoint does
// not leak which handles exist.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.SignInRequest
	if !decodeRequest(w, r, &req) {
		metrics.RecordAuthAttempt("signin", false)
		return
	}

	user, err := h.store.GetUserByHandle(r.Context(), req.Handle)
	if err != nil {
		metrics.RecordAuthAttempt("signin", false)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "unknown handle or password", nil)
			return
		}
		respondStoreError(w, err)
		return
	}

	if user.Disabled {
		metrics.RecordAuthAttempt("signin", false)
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "account disabled", nil)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.RecordAuthAttempt("signin", false)
		respondError(w, http.StatusNotFound, "NOT_FOUND", "unknown handle or password", nil)
		return
	}

	token, expiresAt, err := h.tokens.Generate(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "token generation failed", err)
		return
	}

	metrics.RecordAuthAttempt("signin", true)
	metrics.RecordTokenIssued()

	respondData(w, http.StatusOK, &models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Sanitized(),
	}, started)
}

// Verify checks a token carried in the body, including the live account
// re-check, without side effects.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.VerifyRequest
	if !decodeRequest(w, r, &req) {
		metrics.RecordAuthAttempt("verify", false)
		return
	}

	claims, err := h.gate.VerifyUser(r.Context(), req.Token)
	if err != nil {
		metrics.RecordAuthAttempt("verify", false)
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "token rejected", nil)
		return
	}

	metrics.RecordAuthAttempt("verify", true)
	respondData(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"user_id": claims.UserID,
		"handle":  claims.Handle,
		"roles":   claims.Roles,
	}, started)
}
