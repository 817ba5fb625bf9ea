// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/thisbookapp/thisbook/internal/logging"
	"github.com/thisbookapp/thisbook/internal/models"
)

type contextKey string

// ClaimsContextKey locates the verified Claims in a request context.
const ClaimsContextKey contextKey = "claims"

// UserSource resolves account documents for the live re-check.
type UserSource interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Middleware enforces the token gate on protected routes.
//
// The gate distinguishes two failure classes: a request that carries
// no credentials at all is 401; a request whose credentials are
// rejected, whose account vanished, or whose account is disabled is
// 403. Role checks read the token's role snapshot; the disabled check
// always re-reads the store, so revoking an account takes effect on
// the next request even with an unexpired token.
type Middleware struct {
	tokens *TokenManager
	users  UserSource
}

// NewMiddleware builds the token gate.
func NewMiddleware(tokens *TokenManager, users UserSource) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Authenticate verifies the bearer token and the account behind it,
// storing the Claims in the request context on success.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondAuthError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "authorization header required")
			return
		}

		token, ok := extractBearerToken(authHeader)
		if !ok {
			respondAuthError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "invalid authorization header")
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("token rejected")
			respondAuthError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "invalid or expired token")
			return
		}

		user, err := m.users.GetUser(r.Context(), claims.UserID)
		if err != nil || user.Disabled {
			respondAuthError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "account not available")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route on the ADMIN role. Must run after
// Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.requireRole(models.RoleAdmin, next)
}

// RequireWriter gates a route on the WRITER role; ADMIN passes too.
// Must run after Authenticate.
func (m *Middleware) RequireWriter(next http.Handler) http.Handler {
	return m.requireRole(models.RoleWriter, next)
}

func (m *Middleware) requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			respondAuthError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "missing credentials")
			return
		}
		if !claims.HasRole(role) && !claims.HasRole(models.RoleAdmin) {
			respondAuthError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// VerifyUser runs the full token check outside the middleware chain.
// Used by the body-token verify endpoint.
func (m *Middleware) VerifyUser(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := m.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Disabled {
		return nil, ErrAccountDisabled
	}
	return claims, nil
}

// ErrAccountDisabled means the token was valid but the account behind
// it is soft-deleted.
var ErrAccountDisabled = errors.New("account disabled")

// ClaimsFromContext retrieves the verified Claims, if present.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

func extractBearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// respondAuthError writes the standard envelope without depending on
// the api package.
func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Err(err).Msg("failed to encode auth error response")
	}
}
