// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"reflect"
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleReader, true},
		{RoleWriter, true},
		{RoleAdmin, true},
		{"reader", false},
		{"ROOT", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidRole(tt.role); got != tt.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestNormalizeRoles(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil gets baseline", nil, []string{RoleReader}},
		{"baseline kept once", []string{RoleReader, RoleReader}, []string{RoleReader}},
		{"writer preserved", []string{RoleWriter}, []string{RoleReader, RoleWriter}},
		{"unknown dropped", []string{"ROOT", RoleAdmin}, []string{RoleReader, RoleAdmin}},
		{"dedup", []string{RoleWriter, RoleWriter, RoleAdmin}, []string{RoleReader, RoleWriter, RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRoles(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeRoles(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	roles := []string{RoleReader, RoleWriter}
	if !HasRole(roles, RoleWriter) {
		t.Error("expected WRITER present")
	}
	if HasRole(roles, RoleAdmin) {
		t.Error("did not expect ADMIN")
	}
}

func TestUserSanitized(t *testing.T) {
	u := &User{ID: "u1", Handle: "ren", PasswordHash: "$2a$12$abc"}
	s := u.Sanitized()
	if s.PasswordHash != "" {
		t.Error("hash leaked through Sanitized")
	}
	if u.PasswordHash == "" {
		t.Error("original mutated")
	}
	if s.Handle != "ren" {
		t.Errorf("handle lost: %q", s.Handle)
	}
}
