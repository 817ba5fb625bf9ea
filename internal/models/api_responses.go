// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only on failure.
//
//	{
//	  "status": "success",
//	  "data": {"id": "..."},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the structured error body.
//
// Codes form a closed set:
//   - VALIDATION_ERROR: malformed or invalid input (400)
//   - AUTHENTICATION_ERROR: missing credentials (401)
//   - AUTHORIZATION_ERROR: rejected credentials or insufficient role (403)
//   - NOT_FOUND: resource does not exist (404)
//   - CONFLICT: unique-field collision (406)
//   - RATE_LIMIT_EXCEEDED: too many requests (429)
//   - INTERNAL_ERROR: anything else (500)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TokenResponse is returned by signup, signin, and verify.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user,omitempty"`
}
