// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package store

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/thisbookapp/thisbook/internal/models"
)

const (
	userKeyPrefix       = "user:"
	userHandleKeyPrefix = "user_handle:"
)

func userKey(id string) string { return userKeyPrefix + id }

func userHandleKey(handle string) string {
	return userHandleKeyPrefix + normalizeKeyPart(handle)
}

// CreateUser persists a new account. The handle must be free, the role
// set is normalized to always include READER, and the id is assigned
// here. Returns ErrConflict when the handle is taken.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Roles = models.NormalizeRoles(user.Roles)
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Clubs == nil {
		user.Clubs = []string{}
	}
	if user.Events == nil {
		user.Events = []string{}
	}
	if user.Chats == nil {
		user.Chats = []string{}
	}
	if user.Categories == nil {
		user.Categories = []string{}
	}

	return s.update("create", "users", func(txn *badger.Txn) error {
		taken, err := indexExists(txn, userHandleKey(user.Handle))
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
		if err := setDoc(txn, userKey(user.ID), user); err != nil {
			return err
		}
		return txn.Set([]byte(userHandleKey(user.Handle)), []byte(user.ID))
	})
}

// GetUser loads an account by id, disabled or not.
func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.view("get", "users", func(txn *badger.Txn) error {
		return getDoc(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByHandle resolves the handle index and loads the account.
func (s *Store) GetUserByHandle(_ context.Context, handle string) (*models.User, error) {
	var user models.User
	err := s.view("get", "users", func(txn *badger.Txn) error {
		id, err := indexLookup(txn, userHandleKey(handle))
		if err != nil {
			return err
		}
		return getDoc(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account sorted by display name.
func (s *Store) ListUsers(_ context.Context) ([]*models.User, error) {
	var users []*models.User
	err := s.view("list", "users", func(txn *badger.Txn) error {
		return forEachDoc(txn, userKeyPrefix, func(val []byte) error {
			var u models.User
			if err := json.Unmarshal(val, &u); err != nil {
				return err
			}
			users = append(users, &u)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})
	return users, nil
}

// UpdateUser rewrites an existing account document. The handle is
// immutable, so no reindexing happens here.
func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	return s.update("update", "users", func(txn *badger.Txn) error {
		var existing models.User
		if err := getDoc(txn, userKey(user.ID), &existing); err != nil {
			return err
		}
		user.Handle = existing.Handle
		return setDoc(txn, userKey(user.ID), user)
	})
}

// SetUserDisabled flips the soft-delete flag and returns the updated
// account. Disabled accounts stay persisted and can be re-enabled.
func (s *Store) SetUserDisabled(_ context.Context, id string, disabled bool) (*models.User, error) {
	var user models.User
	err := s.update("set_disabled", "users", func(txn *badger.Txn) error {
		if err := getDoc(txn, userKey(id), &user); err != nil {
			return err
		}
		user.Disabled = disabled
		user.UpdatedAt = time.Now().UTC()
		return setDoc(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserDisabledByHandle is SetUserDisabled keyed by handle.
func (s *Store) SetUserDisabledByHandle(ctx context.Context, handle string, disabled bool) (*models.User, error) {
	var id string
	err := s.view("get", "users", func(txn *badger.Txn) error {
		var err error
		id, err = indexLookup(txn, userHandleKey(handle))
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.SetUserDisabled(ctx, id, disabled)
}

// AddUserRole grants a role. Adding an already-held role is a no-op.
func (s *Store) AddUserRole(_ context.Context, id, role string) (*models.User, error) {
	var user models.User
	err := s.update("add_role", "users", func(txn *badger.Txn) error {
		if err := getDoc(txn, userKey(id), &user); err != nil {
			return err
		}
		if !models.HasRole(user.Roles, role) {
			user.Roles = append(user.Roles, role)
			user.UpdatedAt = time.Now().UTC()
			return setDoc(txn, userKey(id), &user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RemoveUserRole revokes a role. READER is the baseline and returns
// ErrBaselineRole; the account always keeps at least that role.
func (s *Store) RemoveUserRole(_ context.Context, id, role string) (*models.User, error) {
	if role == models.RoleReader {
		return nil, ErrBaselineRole
	}
	var user models.User
	err := s.update("remove_role", "users", func(txn *badger.Txn) error {
		if err := getDoc(txn, userKey(id), &user); err != nil {
			return err
		}
		if !models.HasRole(user.Roles, role) {
			return ErrNotFound
		}
		user.Roles = removeString(user.Roles, role)
		user.UpdatedAt = time.Now().UTC()
		return setDoc(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserCategories replaces the account's category affinities.
func (s *Store) SetUserCategories(_ context.Context, id string, categoryIDs []string) (*models.User, error) {
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	var user models.User
	err := s.update("set_categories", "users", func(txn *badger.Txn) error {
		if err := getDoc(txn, userKey(id), &user); err != nil {
			return err
		}
		for _, cid := range categoryIDs {
			if err := getDoc(txn, categoryKey(cid), &models.Category{}); err != nil {
				return err
			}
		}
		user.Categories = categoryIDs
		user.UpdatedAt = time.Now().UTC()
		return setDoc(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
