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
	clubKeyPrefix     = "club:"
	clubNameKeyPrefix = "club_name:"
)

func clubKey(id string) string { return clubKeyPrefix + id }

func clubNameKey(name string) string {
	return clubNameKeyPrefix + normalizeKeyPart(name)
}

// CreateClub persists a new club. The founding admin becomes the first
// member and gets the club id on its Clubs list in the same
// transaction. Returns ErrConflict when the name is taken.
func (s *Store) CreateClub(_ context.Context, club *models.Club) error {
	if club.ID == "" {
		club.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	club.CreatedAt = now
	club.UpdatedAt = now
	club.Members = []string{club.AdminID}

	return s.update("create", "clubs", func(txn *badger.Txn) error {
		taken, err := indexExists(txn, clubNameKey(club.Name))
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		var admin models.User
		if err := getDoc(txn, userKey(club.AdminID), &admin); err != nil {
			return err
		}
		if !containsString(admin.Clubs, club.ID) {
			admin.Clubs = append(admin.Clubs, club.ID)
			admin.UpdatedAt = now
			if err := setDoc(txn, userKey(admin.ID), &admin); err != nil {
				return err
			}
		}

		if err := setDoc(txn, clubKey(club.ID), club); err != nil {
			return err
		}
		return txn.Set([]byte(clubNameKey(club.Name)), []byte(club.ID))
	})
}

// GetClub loads a club by id.
func (s *Store) GetClub(_ context.Context, id string) (*models.Club, error) {
	var club models.Club
	err := s.view("get", "clubs", func(txn *badger.Txn) error {
		return getDoc(txn, clubKey(id), &club)
	})
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// ListClubs returns all clubs sorted by name.
func (s *Store) ListClubs(_ context.Context) ([]*models.Club, error) {
	var clubs []*models.Club
	err := s.view("list", "clubs", func(txn *badger.Txn) error {
		return forEachDoc(txn, clubKeyPrefix, func(val []byte) error {
			var c models.Club
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			clubs = append(clubs, &c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(clubs, func(i, j int) bool {
		return clubs[i].Name < clubs[j].Name
	})
	return clubs, nil
}

// UpdateClub rewrites name and description, reindexing the name when
// it changes. Membership is managed by Subscribe/Unsubscribe.
func (s *Store) UpdateClub(_ context.Context, club *models.Club) error {
	club.UpdatedAt = time.Now().UTC()
	return s.update("update", "clubs", func(txn *badger.Txn) error {
		var existing models.Club
		if err := getDoc(txn, clubKey(club.ID), &existing); err != nil {
			return err
		}
		club.AdminID = existing.AdminID
		club.Members = existing.Members

		if normalizeKeyPart(club.Name) != normalizeKeyPart(existing.Name) {
			taken, err := indexExists(txn, clubNameKey(club.Name))
			if err != nil {
				return err
			}
			if taken {
				return ErrConflict
			}
			if err := txn.Delete([]byte(clubNameKey(existing.Name))); err != nil {
				return fmt.Errorf("delete club name index: %w", err)
			}
			if err := txn.Set([]byte(clubNameKey(club.Name)), []byte(club.ID)); err != nil {
				return fmt.Errorf("set club name index: %w", err)
			}
		}
		return setDoc(txn, clubKey(club.ID), club)
	})
}

// SubscribeClub adds the user to the club and mirrors the membership
// on the user document. Subscribing twice is a no-op.
func (s *Store) SubscribeClub(_ context.Context, clubID, userID string) (*models.Club, error) {
	var club models.Club
	err := s.update("subscribe", "clubs", func(txn *badger.Txn) error {
		if err := getDoc(txn, clubKey(clubID), &club); err != nil {
			return err
		}
		var user models.User
		if err := getDoc(txn, userKey(userID), &user); err != nil {
			return err
		}

		now := time.Now().UTC()
		if !containsString(club.Members, userID) {
			club.Members = append(club.Members, userID)
			club.UpdatedAt = now
			if err := setDoc(txn, clubKey(clubID), &club); err != nil {
				return err
			}
		}
		if !containsString(user.Clubs, clubID) {
			user.Clubs = append(user.Clubs, clubID)
			user.UpdatedAt = now
			if err := setDoc(txn, userKey(userID), &user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// UnsubscribeClub removes the user from the club and from the mirror
// list on the user document.
func (s *Store) UnsubscribeClub(_ context.Context, clubID, userID string) (*models.Club, error) {
	var club models.Club
	err := s.update("unsubscribe", "clubs", func(txn *badger.Txn) error {
		if err := getDoc(txn, clubKey(clubID), &club); err != nil {
			return err
		}
		var user models.User
		if err := getDoc(txn, userKey(userID), &user); err != nil {
			return err
		}

		now := time.Now().UTC()
		club.Members = removeString(club.Members, userID)
		club.UpdatedAt = now
		if err := setDoc(txn, clubKey(clubID), &club); err != nil {
			return err
		}
		user.Clubs = removeString(user.Clubs, clubID)
		user.UpdatedAt = now
		return setDoc(txn, userKey(userID), &user)
	})
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// DeleteClub removes the club, its name index, and every member's
// mirror reference.
func (s *Store) DeleteClub(_ context.Context, id string) error {
	return s.update("delete", "clubs", func(txn *badger.Txn) error {
		var club models.Club
		if err := getDoc(txn, clubKey(id), &club); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, memberID := range club.Members {
			var user models.User
			err := getDoc(txn, userKey(memberID), &user)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			user.Clubs = removeString(user.Clubs, id)
			user.UpdatedAt = now
			if err := setDoc(txn, userKey(memberID), &user); err != nil {
				return err
			}
		}

		if err := txn.Delete([]byte(clubKey(id))); err != nil {
			return fmt.Errorf("delete club: %w", err)
		}
		return txn.Delete([]byte(clubNameKey(club.Name)))
	})
}
