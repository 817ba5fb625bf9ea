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
	bookKeyPrefix     = "book:"
	bookISBNKeyPrefix = "book_isbn:"
)

func bookKey(id string) string { return bookKeyPrefix + id }

func bookISBNKey(isbn string) string {
	return bookISBNKeyPrefix + normalizeKeyPart(isbn)
}

// CreateBook persists a new catalog entry. Returns ErrConflict when
// the ISBN is taken. When AuthorID is set, the book id is appended to
// that author's book list in the same transaction.
func (s *Store) CreateBook(_ context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.Categories == nil {
		book.Categories = []string{}
	}
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	return s.update("create", "books", func(txn *badger.Txn) error {
		taken, err := indexExists(txn, bookISBNKey(book.ISBN))
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		if book.AuthorID != "" {
			var author models.Author
			if err := getDoc(txn, authorKey(book.AuthorID), &author); err != nil {
				return err
			}
			if !containsString(author.Books, book.ID) {
				author.Books = append(author.Books, book.ID)
				author.UpdatedAt = now
				if err := setDoc(txn, authorKey(author.ID), &author); err != nil {
					return err
				}
			}
		}

		if err := setDoc(txn, bookKey(book.ID), book); err != nil {
			return err
		}
		return txn.Set([]byte(bookISBNKey(book.ISBN)), []byte(book.ID))
	})
}

// GetBook loads a book by id.
func (s *Store) GetBook(_ context.Context, id string) (*models.Book, error) {
	var book models.Book
	err := s.view("get", "books", func(txn *badger.Txn) error {
		return getDoc(txn, bookKey(id), &book)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns the whole catalog sorted by title.
func (s *Store) ListBooks(_ context.Context) ([]*models.Book, error) {
	return s.listBooks(func(*models.Book) bool { return true })
}

// ListBooksByCategory returns books tagged with the category id.
func (s *Store) ListBooksByCategory(_ context.Context, categoryID string) ([]*models.Book, error) {
	return s.listBooks(func(b *models.Book) bool {
		return containsString(b.Categories, categoryID)
	})
}

// ListBooksByReleaseDate returns books released on the given day.
func (s *Store) ListBooksByReleaseDate(_ context.Context, date time.Time) ([]*models.Book, error) {
	y, m, d := date.UTC().Date()
	return s.listBooks(func(b *models.Book) bool {
		by, bm, bd := b.ReleaseDate.UTC().Date()
		return by == y && bm == m && bd == d
	})
}

func (s *Store) listBooks(keep func(*models.Book) bool) ([]*models.Book, error) {
	var books []*models.Book
	err := s.view("list", "books", func(txn *badger.Txn) error {
		return forEachDoc(txn, bookKeyPrefix, func(val []byte) error {
			var b models.Book
			if err := json.Unmarshal(val, &b); err != nil {
				return err
			}
			if keep(&b) {
				books = append(books, &b)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].Title < books[j].Title
	})
	return books, nil
}

// UpdateBook rewrites an existing book. The ISBN is immutable.
func (s *Store) UpdateBook(_ context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().UTC()
	return s.update("update", "books", func(txn *badger.Txn) error {
		var existing models.Book
		if err := getDoc(txn, bookKey(book.ID), &existing); err != nil {
			return err
		}
		book.ISBN = existing.ISBN
		book.AuthorID = existing.AuthorID
		return setDoc(txn, bookKey(book.ID), book)
	})
}

// DeleteBook removes the book, its ISBN index, and the reference held
// by its author, all in one transaction.
func (s *Store) DeleteBook(_ context.Context, id string) error {
	return s.update("delete", "books", func(txn *badger.Txn) error {
		var book models.Book
		if err := getDoc(txn, bookKey(id), &book); err != nil {
			return err
		}

		if book.AuthorID != "" {
			var author models.Author
			err := getDoc(txn, authorKey(book.AuthorID), &author)
			if err == nil {
				author.Books = removeString(author.Books, id)
				author.UpdatedAt = time.Now().UTC()
				if err := setDoc(txn, authorKey(author.ID), &author); err != nil {
					return err
				}
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
		}

		if err := txn.Delete([]byte(bookKey(id))); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		return txn.Delete([]byte(bookISBNKey(book.ISBN)))
	})
}
