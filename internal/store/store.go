// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

// Package store persists the domain documents in BadgerDB. Each entity
// lives as a JSON value under a typed key prefix; unique fields carry a
// secondary index key pointing back at the document id, which is how
// conflicts are detected inside a single transaction.
//
// Key layout:
//
//	user:<id>                user document
//	user_handle:<handle>     -> user id
//	book:<id>                book document
//	book_isbn:<isbn>         -> book id
//	author:<id>              author document
//	author_name:<name>       -> author id
//	author_user:<userID>     -> author id
//	club:<id>                club document
//	club_name:<name>         -> club id
//	event:<id>               event document
//	chat:<id>                chat document
//	chatmsg:<chatID>:<msgID> chat message document
//	comment:<id>             comment document
//	category:<id>            category document
//	category_name:<name>     -> category id
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/thisbookapp/thisbook/internal/config"
	"github.com/thisbookapp/thisbook/internal/logging"
	"github.com/thisbookapp/thisbook/internal/metrics"
)

// Store wraps the Badger database with entity-level operations.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the document store described by cfg.
func Open(cfg config.StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store. Intended for tests.
func OpenInMemory() (*Store, error) {
	return Open(config.StoreConfig{InMemory: true})
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// update runs fn in a read-write transaction, recording latency and
// outcome under the operation/collection metric labels.
func (s *Store) update(operation, collection string, fn func(txn *badger.Txn) error) error {
	start := time.Now()
	err := s.db.Update(fn)
	metrics.RecordStoreOperation(operation, collection, time.Since(start), err)
	return err
}

// view runs fn in a read-only transaction, recording latency and
// outcome under the operation/collection metric labels.
func (s *Store) view(operation, collection string, fn func(txn *badger.Txn) error) error {
	start := time.Now()
	err := s.db.View(fn)
	metrics.RecordStoreOperation(operation, collection, time.Since(start), err)
	return err
}

// getDoc loads and unmarshals the document at key inside txn.
func getDoc(txn *badger.Txn, key string, out interface{}) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// setDoc marshals doc and stores it at key inside txn.
func setDoc(txn *badger.Txn, key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// indexLookup resolves a secondary index key to the primary id.
func indexLookup(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	var id string
	err = item.Value(func(val []byte) error {
		id = string(val)
		return nil
	})
	return id, err
}

// indexExists reports whether a secondary index key is taken.
func indexExists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("get %s: %w", key, err)
}

// forEachDoc passes every document value under prefix to fn.
func forEachDoc(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// normalizeKeyPart lowercases and trims an index component so lookups
// are case-insensitive.
func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// removeString drops the first occurrence of v from list.
func removeString(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// containsString reports whether list contains v.
func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// badgerLogger routes Badger's internal messages through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Trace().Str("component", "badger").Msgf(format, args...)
}
