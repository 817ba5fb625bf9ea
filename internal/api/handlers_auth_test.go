// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"
	"testing"

	"github.com/thisbookapp/thisbook/internal/models"
)

func TestSignUpIssuesToken(t *testing.T) {
	env := newTestEnv(t)

	token, user := env.signUp(t, "frodo")
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Handle != "frodo" {
		t.Errorf("handle = %q", user.Handle)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}
	if !models.HasRole(user.Roles, models.RoleReader) {
		t.Errorf("roles = %v, want baseline reader", user.Roles)
	}
}

func TestSignUpDuplicateHandle(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "samwise")

	rec := env.do(t, http.MethodPost, "/auth/signup", "", models.SignUpRequest{
		Name:     "Impostor",
		Handle:   "samwise",
		Mail:     "other@example.com",
		Password: "correct-horse",
	})
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("duplicate signup: status %d, want 406", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != "CONFLICT" {
		t.Errorf("error code = %s", apiErr.Code)
	}
}

func TestSignUpValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  models.SignUpRequest
	}{
		{"missing handle", models.SignUpRequest{Name: "A", Mail: "a@example.com", Password: "longenough"}},
		{"bad mail", models.SignUpRequest{Name: "A", Handle: "someone", Mail: "not-mail", Password: "longenough"}},
		{"short password", models.SignUpRequest{Name: "A", Handle: "someone", Mail: "a@example.com", Password: "short"}},
		{"unknown role", models.SignUpRequest{Name: "A", Handle: "someone", Mail: "a@example.com", Password: "longenough", Roles: []string{"OVERLORD"}}},
		{"bad birth date", models.SignUpRequest{Name: "A", Handle: "someone", Mail: "a@example.com", Password: "longenough", BirthDate: "01/02/2000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/signup", "", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if apiErr := decodeError(t, rec); apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("error code = %s", apiErr.Code)
			}
		})
	}
}

func TestSignUpUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", "", models.SignUpRequest{
		Name:       "Reader",
		Handle:     "catless",
		Mail:       "catless@example.com",
		Password:   "correct-horse",
		Categories: []string{"no-such-shelf"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSignIn(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "gandalf")

	rec := env.do(t, http.MethodPost, "/auth/signin", "", models.SignInRequest{
		Handle:   "gandalf",
		Password: "correct-horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: status %d body %s", rec.Code, rec.Body.String())
	}

	var resp models.TokenResponse
	decodeData(t, rec, &resp)
	if resp.Token == "" || resp.User == nil || resp.User.Handle != "gandalf" {
		t.Fatalf("incomplete signin response: %+v", resp)
	}
}

// Unknown handles and wrong passwords produce identical responses so a
// caller cannot probe which handles exist.
func TestSignInDoesNotLeakAccountExistence(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "aragorn")

	wrongPassword := env.do(t, http.MethodPost, "/auth/signin", "", models.SignInRequest{
		Handle:   "aragorn",
		Password: "wrong-password",
	})
	unknownHandle := env.do(t, http.MethodPost, "/auth/signin", "", models.SignInRequest{
		Handle:   "nobody-here",
		Password: "wrong-password",
	})

	if wrongPassword.Code != http.StatusNotFound || unknownHandle.Code != http.StatusNotFound {
		t.Fatalf("statuses %d / %d, want 404 / 404", wrongPassword.Code, unknownHandle.Code)
	}

	errA := decodeError(t, wrongPassword)
	errB := decodeError(t, unknownHandle)
	if errA.Code != errB.Code || errA.Message != errB.Message {
		t.Errorf("signin failures differ: %+v vs %+v", errA, errB)
	}
}

func TestSignInDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := env.signUp(t, "doorkeeper", models.RoleAdmin)
	_, user := env.signUp(t, "banned")

	rec := env.do(t, http.MethodDelete, "/user/"+user.ID, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("disable user: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/auth/signin", "", models.SignInRequest{
		Handle:   "banned",
		Password: "correct-horse",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("disabled signin: status %d, want 403", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != "AUTHORIZATION_ERROR" {
		t.Errorf("error code = %s", apiErr.Code)
	}
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.signUp(t, "legolas")

	rec := env.do(t, http.MethodPost, "/auth/verify", "", models.VerifyRequest{Token: token})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: status %d body %s", rec.Code, rec.Body.String())
	}

	var payload map[string]interface{}
	decodeData(t, rec, &payload)
	if payload["valid"] != true {
		t.Errorf("valid = %v", payload["valid"])
	}
	if payload["user_id"] != user.ID {
		t.Errorf("user_id = %v, want %s", payload["user_id"], user.ID)
	}
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/verify", "", models.VerifyRequest{Token: "garbage.token.here"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("verify garbage: status %d, want 403", rec.Code)
	}
}

func TestVerifyRejectsDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := env.signUp(t, "gatekeeper", models.RoleAdmin)
	token, user := env.signUp(t, "suspended")

	rec := env.do(t, http.MethodDelete, "/user/"+user.ID, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("disable user: status %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/auth/verify", "", models.VerifyRequest{Token: token})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("verify disabled: status %d, want 403", rec.Code)
	}
}
