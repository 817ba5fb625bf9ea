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

const commentKeyPrefix = "comment:"

func commentKey(id string) string { return commentKeyPrefix + id }

// CreateComment persists a remark. The author account must exist.
func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	return s.update("create", "comments", func(txn *badger.Txn) error {
		if err := getDoc(txn, userKey(comment.UserID), &models.User{}); err != nil {
			return err
		}
		return setDoc(txn, commentKey(comment.ID), comment)
	})
}

// GetComment loads a remark by id.
func (s *Store) GetComment(_ context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := s.view("get", "comments", func(txn *badger.Txn) error {
		return getDoc(txn, commentKey(id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns every remark, newest first.
func (s *Store) ListComments(ctx context.Context) ([]*models.Comment, error) {
	return s.listComments(func(*models.Comment) bool { return true })
}

// ListCommentsByType returns remarks of one type, newest first.
func (s *Store) ListCommentsByType(_ context.Context, commentType string) ([]*models.Comment, error) {
	return s.listComments(func(c *models.Comment) bool {
		return c.Type == commentType
	})
}

func (s *Store) listComments(keep func(*models.Comment) bool) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.view("list", "comments", func(txn *badger.Txn) error {
		return forEachDoc(txn, commentKeyPrefix, func(val []byte) error {
			var c models.Comment
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			if keep(&c) {
				comments = append(comments, &c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// UpdateComment rewrites title and content. Type, target, and author
// are immutable.
func (s *Store) UpdateComment(_ context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now().UTC()
	return s.update("update", "comments", func(txn *badger.Txn) error {
		var existing models.Comment
		if err := getDoc(txn, commentKey(comment.ID), &existing); err != nil {
			return err
		}
		comment.Type = existing.Type
		comment.TargetID = existing.TargetID
		comment.UserID = existing.UserID
		comment.CreatedAt = existing.CreatedAt
		return setDoc(txn, commentKey(comment.ID), comment)
	})
}

// DeleteComment removes a remark.
func (s *Store) DeleteComment(_ context.Context, id string) error {
	return s.update("delete", "comments", func(txn *badger.Txn) error {
		if err := getDoc(txn, commentKey(id), &models.Comment{}); err != nil {
			return err
		}
		if err := txn.Delete([]byte(commentKey(id))); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}
