// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

// Package auth issues and verifies the bearer tokens guarding the API,
// hashes account passwords, and provides the request middleware that
// enforces the token gate and role requirements.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thisbookapp/thisbook/internal/config"
	"github.com/thisbookapp/thisbook/internal/models"
)

// Claims is the verified identity carried by a token. It is produced
// exactly once, by TokenManager.Validate; handlers never parse tokens
// themselves.
type Claims struct {
	UserID string   `json:"uid"`
	Handle string   `json:"handle"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token snapshot carries the role.
func (c *Claims) HasRole(role string) bool {
	return models.HasRole(c.Roles, role)
}

// TokenManager signs and verifies session tokens. HMAC-SHA256 only;
// any other algorithm in an inbound token is rejected.
type TokenManager struct {
	secret  []byte
	timeout time.Duration
}

// NewTokenManager builds a manager from the security configuration.
// The secret requirement is enforced again here so a manager can never
// exist unsigned.
func NewTokenManager(cfg *config.SecurityConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required but was empty")
	}
	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &TokenManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: timeout,
	}, nil
}

// Generate signs a fresh token for the account, embedding id, handle,
// and a snapshot of the current role set. Returns the token and its
// expiry.
func (m *TokenManager) Generate(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.timeout)

	claims := &Claims{
		UserID: user.ID,
		Handle: user.Handle,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token string, returning the typed
// claims. Expired, tampered, malformed, and wrong-algorithm tokens all
// fail here.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
