// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/thisbookapp/thisbook/internal/models"
)

const (
	categoryKeyPrefix     = "category:"
	categoryNameKeyPrefix = "category_name:"
)

func categoryKey(id string) string { return categoryKeyPrefix + id }

func categoryNameKey(name string) string {
	return categoryNameKeyPrefix + normalizeKeyPart(name)
}

// CreateCategory persists a new genre tag. Returns ErrConflict when
// the name is taken (case-insensitive).
func (s *Store) CreateCategory(_ context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.CreatedAt = time.Now().UTC()

	return s.update("create", "categories", func(txn *badger.Txn) error {
		taken, err := indexExists(txn, categoryNameKey(category.Name))
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
		if err := setDoc(txn, categoryKey(category.ID), category); err != nil {
			return err
		}
		return txn.Set([]byte(categoryNameKey(category.Name)), []byte(category.ID))
	})
}

// GetCategory loads a category by id.
func (s *Store) GetCategory(_ context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := s.view("get", "categories", func(txn *badger.Txn) error {
		return getDoc(txn, categoryKey(id), &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories sorted by name.
func (s *Store) ListCategories(_ context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := s.view("list", "categories", func(txn *badger.Txn) error {
		return forEachDoc(txn, categoryKeyPrefix, func(val []byte) error {
			var c models.Category
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			categories = append(categories, &c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// DeleteCategory removes the category and its name index. References
// held by users and books are left to age out; they resolve to
// ErrNotFound on use.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	return s.update("delete", "categories", func(txn *badger.Txn) error {
		var category models.Category
		if err := getDoc(txn, categoryKey(id), &category); err != nil {
			return err
		}
		if err := txn.Delete([]byte(categoryKey(id))); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return txn.Delete([]byte(categoryNameKey(category.Name)))
	})
}

// ResolveCategoryNames maps category names to document ids. Any
// unknown name fails the whole resolution with ErrNotFound.
func (s *Store) ResolveCategoryNames(_ context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	err := s.view("resolve", "categories", func(txn *badger.Txn) error {
		for _, name := range names {
			id, err := indexLookup(txn, categoryNameKey(name))
			if err != nil {
				return fmt.Errorf("category %q: %w", name, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
