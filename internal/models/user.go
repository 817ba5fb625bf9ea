// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// User is an account document. Handle is unique across the store.
// Disabled accounts remain persisted but cannot authenticate; the
// disabled flag is the soft-delete marker.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	Mail      string    `json:"mail"`
	BirthDate time.Time `json:"birth_date"`

	// PasswordHash is the bcrypt digest. Stripped from API responses
	// via Sanitized.
	PasswordHash string `json:"password_hash,omitempty"`

	Roles    []string `json:"roles"`
	Disabled bool     `json:"disabled"`

	// Membership and affinity lists hold document ids.
	Clubs      []string `json:"clubs"`
	Events     []string `json:"events"`
	Chats      []string `json:"chats"`
	Categories []string `json:"categories"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe to serialize in API responses.
func (u *User) Sanitized() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// SignUpRequest is the payload for POST /auth/signup and POST /user.
type SignUpRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=120"`
	Handle    string   `json:"handle" validate:"required,min=3,max=60"`
	Mail      string   `json:"mail" validate:"required,email"`
	BirthDate string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Password  string   `json:"password" validate:"required,min=8,max=128"`
	Roles     []string `json:"roles" validate:"omitempty,dive,oneof=READER WRITER ADMIN"`

	// Categories carries category names, resolved to ids at signup.
	Categories []string `json:"categories" validate:"omitempty,dive,min=1"`
}

// SignInRequest is the payload for POST /auth/signin.
type SignInRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyRequest carries a token for POST /auth/verify.
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// UpdateUserRequest is the payload for PUT /user/{id}. Zero-valued
// fields are left unchanged.
type UpdateUserRequest struct {
	Name      string `json:"name" validate:"omitempty,min=1,max=120"`
	Mail      string `json:"mail" validate:"omitempty,email"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// ChangePasswordRequest is the payload for POST /user/{id}/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// RoleRequest names a role to add via PUT /user/{id}/roles.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=READER WRITER ADMIN"`
}

// CategoriesRequest replaces a user's category affinities.
type CategoriesRequest struct {
	Categories []string `json:"categories" validate:"required,dive,min=1"`
}
