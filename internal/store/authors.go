// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/thisbookapp/thisbook/internal/models"
)

const (
	authorKeyPrefix     = "author:"
	authorNameKeyPrefix = "author_name:"
	authorUserKeyPrefix = "author_user:"
)

func authorKey(id string) string { return authorKeyPrefix + id }

func authorNameKey(name string) string {
	return authorNameKeyPrefix + normalizeKeyPart(name)
}

func authorUserKey(userID string) string { return authorUserKeyPrefix + userID }

// CreateAuthor persists a writer profile. Returns ErrConflict when the
// name is taken, or when UserID is set and already linked elsewhere.
func (s *Store) CreateAuthor(_ context.Context, author *models.Author) error {
	if author.ID == "" {
		author.ID = uuid.New().String()
	}
	if author.Books == nil {
		author.Books = []string{}
	}
	now := time.Now().UTC()
	author.CreatedAt = now
	author.UpdatedAt = now

	return s.update("create", "authors", func(txn *badger.Txn) error {
		taken, err := indexExists(txn, authorNameKey(author.Name))
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		if author.UserID != "" {
			if err := getDoc(txn, userKey(author.UserID), &models.User{}); err != nil {
				return err
			}
			linked, err := indexExists(txn, authorUserKey(author.UserID))
			if err != nil {
				return err
			}
			if linked {
				return ErrConflict
			}
			if err := txn.Set([]byte(authorUserKey(author.UserID)), []byte(author.ID)); err != nil {
				return fmt.Errorf("set author user index: %w", err)
			}
		}

		if err := setDoc(txn, authorKey(author.ID), author); err != nil {
			return err
		}
		return txn.Set([]byte(authorNameKey(author.Name)), []byte(author.ID))
	})
}

// GetAuthor loads a profile by id.
func (s *Store) GetAuthor(_ context.Context, id string) (*models.Author, error) {
	var author models.Author
	err := s.view("get", "authors", func(txn *badger.Txn) error {
		return getDoc(txn, authorKey(id), &author)
	})
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// GetAuthorByUser loads the profile linked to the given account id.
func (s *Store) GetAuthorByUser(_ context.Context, userID string) (*models.Author, error) {
	var author models.Author
	err := s.view("get", "authors", func(txn *badger.Txn) error {
		id, err := indexLookup(txn, authorUserKey(userID))
		if err != nil {
			return err
		}
		return getDoc(txn, authorKey(id), &author)
	})
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// ListAuthors returns all profiles sorted by name.
func (s *Store) ListAuthors(_ context.Context) ([]*models.Author, error) {
	var authors []*models.Author
	err := s.view("list", "authors", func(txn *badger.Txn) error {
		return forEachDoc(txn, authorKeyPrefix, func(val []byte) error {
			var a models.Author
			if err := json.Unmarshal(val, &a); err != nil {
				return err
			}
			authors = append(authors, &a)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(authors, func(i, j int) bool {
		return authors[i].Name < authors[j].Name
	})
	return authors, nil
}

// UpdateAuthor rewrites a profile, reindexing the name when it changes.
func (s *Store) UpdateAuthor(_ context.Context, author *models.Author) error {
	author.UpdatedAt = time.Now().UTC()
	return s.update("update", "authors", func(txn *badger.Txn) error {
		var existing models.Author
		if err := getDoc(txn, authorKey(author.ID), &existing); err != nil {
			return err
		}
		author.UserID = existing.UserID
		author.Books = existing.Books

		if normalizeKeyPart(author.Name) != normalizeKeyPart(existing.Name) {
			taken, err := indexExists(txn, authorNameKey(author.Name))
			if err != nil {
				return err
			}
			if taken {
				return ErrConflict
			}
			if err := txn.Delete([]byte(authorNameKey(existing.Name))); err != nil {
				return fmt.Errorf("delete author name index: %w", err)
			}
			if err := txn.Set([]byte(authorNameKey(author.Name)), []byte(author.ID)); err != nil {
				return fmt.Errorf("set author name index: %w", err)
			}
		}
		return setDoc(txn, authorKey(author.ID), author)
	})
}

// DeleteAuthor removes the profile and its indexes, and detaches its
// books by clearing their author reference.
func (s *Store) DeleteAuthor(_ context.Context, id string) error {
	return s.update("delete", "authors", func(txn *badger.Txn) error {
		var author models.Author
		if err := getDoc(txn, authorKey(id), &author); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, bookID := range author.Books {
			var book models.Book
			err := getDoc(txn, bookKey(bookID), &book)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			book.AuthorID = ""
			book.UpdatedAt = now
			if err := setDoc(txn, bookKey(bookID), &book); err != nil {
				return err
			}
		}

		if err := txn.Delete([]byte(authorKey(id))); err != nil {
			return fmt.Errorf("delete author: %w", err)
		}
		if err := txn.Delete([]byte(authorNameKey(author.Name))); err != nil {
			return fmt.Errorf("delete author name index: %w", err)
		}
		if author.UserID != "" {
			return txn.Delete([]byte(authorUserKey(author.UserID)))
		}
		return nil
	})
}
