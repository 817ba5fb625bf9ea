// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thisbookapp/thisbook/internal/logging"
	"github.com/thisbookapp/thisbook/internal/models"
	"github.com/thisbookapp/thisbook/internal/store"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// fakeUserSource serves canned accounts without a database.
type fakeUserSource struct {
	users map[string]*models.User
}

func (f *fakeUserSource) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func newTestGate(t *testing.T, users ...*models.User) (*Middleware, *TokenManager) {
	t.Helper()
	tm := newTestTokenManager(t, time.Hour)
	src := &fakeUserSource{users: map[string]*models.User{}}
	for _, u := range users {
		src.users[u.ID] = u
	}
	return NewMiddleware(tm, src), tm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateMissingHeader(t *testing.T) {
	gate, _ := newTestGate(t, testUser())
	rec := doRequest(gate.Authenticate(okHandler()), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	gate, _ := newTestGate(t, testUser())
	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		rec := doRequest(gate.Authenticate(okHandler()), header)
		if rec.Code != http.StatusForbidden {
			t.Errorf("header %q: status = %d, want 403", header, rec.Code)
		}
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	gate, _ := newTestGate(t, testUser())
	rec := doRequest(gate.Authenticate(okHandler()), "Bearer not-a-token")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	u := testUser()
	gate, tm := newTestGate(t, u)
	token, _, err := tm.Generate(u)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := doRequest(gate.Authenticate(okHandler()), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticateUnknownAccount(t *testing.T) {
	u := testUser()
	gate, tm := newTestGate(t) // account not in the source
	token, _, err := tm.Generate(u)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec := doRequest(gate.Authenticate(okHandler()), "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	u := testUser()
	u.Disabled = true
	gate, tm := newTestGate(t, u)
	token, _, err := tm.Generate(u)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Token is cryptographically valid; the live re-check rejects it.
	rec := doRequest(gate.Authenticate(okHandler()), "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := &models.User{ID: "admin-id", Handle: "root", Roles: []string{models.RoleReader, models.RoleAdmin}}
	reader := testUser()
	gate, tm := newTestGate(t, admin, reader)

	handler := gate.Authenticate(gate.RequireAdmin(okHandler()))

	adminToken, _, _ := tm.Generate(admin)
	if rec := doRequest(handler, "Bearer "+adminToken); rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}

	readerToken, _, _ := tm.Generate(reader)
	if rec := doRequest(handler, "Bearer "+readerToken); rec.Code != http.StatusForbidden {
		t.Errorf("reader: status = %d, want 403", rec.Code)
	}
}

func TestRequireWriterAdmitsAdmin(t *testing.T) {
	admin := &models.User{ID: "admin-id", Handle: "root", Roles: []string{models.RoleReader, models.RoleAdmin}}
	writer := testUser()
	gate, tm := newTestGate(t, admin, writer)

	handler := gate.Authenticate(gate.RequireWriter(okHandler()))

	writerToken, _, _ := tm.Generate(writer)
	if rec := doRequest(handler, "Bearer "+writerToken); rec.Code != http.StatusOK {
		t.Errorf("writer: status = %d, want 200", rec.Code)
	}

	adminToken, _, _ := tm.Generate(admin)
	if rec := doRequest(handler, "Bearer "+adminToken); rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
}

func TestRoleSnapshotTrusted(t *testing.T) {
	// The role check reads the token snapshot, so a role revoked after
	// issuance still passes until the token expires. Disabling the
	// account is the cutoff that takes effect immediately.
	u := testUser() // carries WRITER
	gate, tm := newTestGate(t, u)
	token, _, _ := tm.Generate(u)

	u.Roles = []string{models.RoleReader} // revoked after issuance

	handler := gate.Authenticate(gate.RequireWriter(okHandler()))
	if rec := doRequest(handler, "Bearer "+token); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (snapshot honored)", rec.Code)
	}
}

func TestVerifyUser(t *testing.T) {
	u := testUser()
	gate, tm := newTestGate(t, u)
	token, _, _ := tm.Generate(u)

	claims, err := gate.VerifyUser(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("user id = %q", claims.UserID)
	}

	u.Disabled = true
	if _, err := gate.VerifyUser(context.Background(), token); err == nil {
		t.Fatal("expected disabled account to fail verification")
	}
}
