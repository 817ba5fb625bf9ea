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

const eventKeyPrefix = "event:"

func eventKey(id string) string { return eventKeyPrefix + id }

// CreateEvent persists a new gathering. The organizing admin becomes
// the first member, mirrored on the user document.
func (s *Store) CreateEvent(_ context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Members = []string{event.AdminID}

	return s.update("create", "events", func(txn *badger.Txn) error {
		var admin models.User
		if err := getDoc(txn, userKey(event.AdminID), &admin); err != nil {
			return err
		}
		if !containsString(admin.Events, event.ID) {
			admin.Events = append(admin.Events, event.ID)
			admin.UpdatedAt = now
			if err := setDoc(txn, userKey(admin.ID), &admin); err != nil {
				return err
			}
		}
		return setDoc(txn, eventKey(event.ID), event)
	})
}

// GetEvent loads an event by id.
func (s *Store) GetEvent(_ context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := s.view("get", "events", func(txn *badger.Txn) error {
		return getDoc(txn, eventKey(id), &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns all events, upcoming-first.
func (s *Store) ListEvents(_ context.Context) ([]*models.Event, error) {
	var events []*models.Event
	err := s.view("list", "events", func(txn *badger.Txn) error {
		return forEachDoc(txn, eventKeyPrefix, func(val []byte) error {
			var e models.Event
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			events = append(events, &e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events, nil
}

// UpdateEvent rewrites the mutable fields. Membership is managed by
// Subscribe/Unsubscribe.
func (s *Store) UpdateEvent(_ context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	return s.update("update", "events", func(txn *badger.Txn) error {
		var existing models.Event
		if err := getDoc(txn, eventKey(event.ID), &existing); err != nil {
			return err
		}
		event.AdminID = existing.AdminID
		event.Members = existing.Members
		return setDoc(txn, eventKey(event.ID), event)
	})
}

// SubscribeEvent adds the user to the event, mirrored both ways.
// Subscribing twice is a no-op.
func (s *Store) SubscribeEvent(_ context.Context, eventID, userID string) (*models.Event, error) {
	var event models.Event
	err := s.update("subscribe", "events", func(txn *badger.Txn) error {
		if err := getDoc(txn, eventKey(eventID), &event); err != nil {
			return err
		}
		var user models.User
		if err := getDoc(txn, userKey(userID), &user); err != nil {
			return err
		}

		now := time.Now().UTC()
		if !containsString(event.Members, userID) {
			event.Members = append(event.Members, userID)
			event.UpdatedAt = now
			if err := setDoc(txn, eventKey(eventID), &event); err != nil {
				return err
			}
		}
		if !containsString(user.Events, eventID) {
			user.Events = append(user.Events, eventID)
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
	return &event, nil
}

// UnsubscribeEvent removes the user from the event, both ways.
func (s *Store) UnsubscribeEvent(_ context.Context, eventID, userID string) (*models.Event, error) {
	var event models.Event
	err := s.update("unsubscribe", "events", func(txn *badger.Txn) error {
		if err := getDoc(txn, eventKey(eventID), &event); err != nil {
			return err
		}
		var user models.User
		if err := getDoc(txn, userKey(userID), &user); err != nil {
			return err
		}

		now := time.Now().UTC()
		event.Members = removeString(event.Members, userID)
		event.UpdatedAt = now
		if err := setDoc(txn, eventKey(eventID), &event); err != nil {
			return err
		}
		user.Events = removeString(user.Events, eventID)
		user.UpdatedAt = now
		return setDoc(txn, userKey(userID), &user)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes the event and every member's mirror reference.
func (s *Store) DeleteEvent(_ context.Context, id string) error {
	return s.update("delete", "events", func(txn *badger.Txn) error {
		var event models.Event
		if err := getDoc(txn, eventKey(id), &event); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, memberID := range event.Members {
			var user models.User
			err := getDoc(txn, userKey(memberID), &user)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			user.Events = removeString(user.Events, id)
			user.UpdatedAt = now
			if err := setDoc(txn, userKey(memberID), &user); err != nil {
				return err
			}
		}

		if err := txn.Delete([]byte(eventKey(id))); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}
