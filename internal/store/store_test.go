// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/thisbookapp/thisbook/internal/logging"
	"github.com/thisbookapp/thisbook/internal/metrics"
	"github.com/thisbookapp/thisbook/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func createTestUser(t *testing.T, s *Store, handle string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "User " + handle,
		Handle:       handle,
		Mail:         handle + "@example.com",
		PasswordHash: "$2a$12$notarealhash",
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", handle, err)
	}
	return u
}

func TestCreateUserAssignsDefaults(t *testing.T) {
	s := newTestStore(t)
	u := createTestUser(t, s, "marguerite")

	if u.ID == "" {
		t.Fatal("expected assigned id")
	}
	if !models.HasRole(u.Roles, models.RoleReader) {
		t.Errorf("roles = %v, want READER baseline", u.Roles)
	}
	if u.Clubs == nil || u.Chats == nil || u.Events == nil || u.Categories == nil {
		t.Error("membership lists not initialized")
	}
}

func TestCreateUserHandleConflict(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "marguerite")

	dup := &models.User{Name: "Other", Handle: "Marguerite", Mail: "o@example.com"}
	if err := s.CreateUser(context.Background(), dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestGetUserByHandleCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	u := createTestUser(t, s, "Marguerite")

	got, err := s.GetUserByHandle(context.Background(), "marguerite")
	if err != nil {
		t.Fatalf("get by handle: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("got id %s, want %s", got.ID, u.ID)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListUsersSortedByName(t *testing.T) {
	s := newTestStore(t)
	for _, h := range []string{"zoe", "anna", "mike"} {
		createTestUser(t, s, h)
	}

	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("got %d users", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].Name > users[i].Name {
			t.Errorf("users out of order: %q before %q", users[i-1].Name, users[i].Name)
		}
	}
}

func TestSoftDeleteAndReEnable(t *testing.T) {
	s := newTestStore(t)
	u := createTestUser(t, s, "marguerite")
	ctx := context.Background()

	disabled, err := s.SetUserDisabled(ctx, u.ID, true)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if !disabled.Disabled {
		t.Fatal("expected disabled flag set")
	}

	// Document stays in the store.
	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get after disable: %v", err)
	}
	if !got.Disabled {
		t.Fatal("disabled flag lost")
	}

	enabled, err := s.SetUserDisabledByHandle(ctx, "marguerite", false)
	if err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	if enabled.Disabled {
		t.Fatal("expected disabled flag cleared")
	}
}

func TestRoleLifecycle(t *testing.T) {
	s := newTestStore(t)
	u := createTestUser(t, s, "marguerite")
	ctx := context.Background()

	got, err := s.AddUserRole(ctx, u.ID, models.RoleWriter)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if !models.HasRole(got.Roles, models.RoleWriter) {
		t.Fatalf("roles = %v", got.Roles)
	}

	// Adding twice is a no-op.
	got, err = s.AddUserRole(ctx, u.ID, models.RoleWriter)
	if err != nil {
		t.Fatalf("re-add role: %v", err)
	}
	count := 0
	for _, r := range got.Roles {
		if r == models.RoleWriter {
			count++
		}
	}
	if count != 1 {
		t.Errorf("WRITER appears %d times", count)
	}

	got, err = s.RemoveUserRole(ctx, u.ID, models.RoleWriter)
	if err != nil {
		t.Fatalf("remove role: %v", err)
	}
	if models.HasRole(got.Roles, models.RoleWriter) {
		t.Error("WRITER still present")
	}

	if _, err := s.RemoveUserRole(ctx, u.ID, models.RoleReader); !errors.Is(err, ErrBaselineRole) {
		t.Errorf("removing READER: err = %v, want ErrBaselineRole", err)
	}
	if _, err := s.RemoveUserRole(ctx, u.ID, models.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing absent role: err = %v, want ErrNotFound", err)
	}
}

func TestSetUserCategories(t *testing.T) {
	s := newTestStore(t)
	u := createTestUser(t, s, "marguerite")
	ctx := context.Background()

	cat := &models.Category{Name: "Mystery"}
	if err := s.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	got, err := s.SetUserCategories(ctx, u.ID, []string{cat.ID})
	if err != nil {
		t.Fatalf("set categories: %v", err)
	}
	if len(got.Categories) != 1 || got.Categories[0] != cat.ID {
		t.Errorf("categories = %v", got.Categories)
	}

	if _, err := s.SetUserCategories(ctx, u.ID, []string{"missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category: err = %v, want ErrNotFound", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	scifi := &models.Category{Name: "SciFi"}
	if err := s.CreateCategory(ctx, scifi); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateCategory(ctx, &models.Category{Name: "scifi"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name: err = %v, want ErrConflict", err)
	}

	ids, err := s.ResolveCategoryNames(ctx, []string{"SCIFI"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 1 || ids[0] != scifi.ID {
		t.Errorf("ids = %v", ids)
	}

	if _, err := s.ResolveCategoryNames(ctx, []string{"SciFi", "Western"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown name: err = %v, want ErrNotFound", err)
	}

	if err := s.DeleteCategory(ctx, scifi.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetCategory(ctx, scifi.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v", err)
	}

	// Name is free again after deletion.
	if err := s.CreateCategory(ctx, &models.Category{Name: "SciFi"}); err != nil {
		t.Errorf("recreate after delete: %v", err)
	}
}

func TestStoreOperationsRecordMetrics(t *testing.T) {
	s := newTestStore(t)

	base := getCounterValue(t, metrics.StoreOperationDuration, "create", "users")
	createTestUser(t, s, "instrumented")
	if got := getCounterValue(t, metrics.StoreOperationDuration, "create", "users") - base; got != 1 {
		t.Errorf("expected 1 create observation recorded, got %v", got)
	}

	errBase := testutil.ToFloat64(metrics.StoreOperationErrors.WithLabelValues("get", "users", ErrNotFound.Error()))
	if _, err := s.GetUser(context.Background(), "missing-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.StoreOperationErrors.WithLabelValues("get", "users", ErrNotFound.Error())) - errBase; got != 1 {
		t.Errorf("expected 1 error counter increment, got %v", got)
	}
}

// getCounterValue reads the sample count of a histogram child, since
// testutil.ToFloat64 does not support histograms.
func getCounterValue(t *testing.T, vec *prometheus.HistogramVec, labels ...string) float64 {
	t.Helper()
	obs, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("histogram labels %v: %v", labels, err)
	}
	var m dto.Metric
	if err := obs.(prometheus.Histogram).Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return float64(m.GetHistogram().GetSampleCount())
}
