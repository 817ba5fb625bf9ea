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
	chatKeyPrefix    = "chat:"
	chatMsgKeyPrefix = "chatmsg:"
)

func chatKey(id string) string { return chatKeyPrefix + id }

func chatMsgKey(chatID, msgID string) string {
	return chatMsgKeyPrefix + chatID + ":" + msgID
}

func chatMsgPrefix(chatID string) string {
	return chatMsgKeyPrefix + chatID + ":"
}

// CreateChat persists a conversation and pushes the chat id onto every
// initial member's Chats list. Unknown members fail the transaction.
func (s *Store) CreateChat(_ context.Context, chat *models.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.Members == nil {
		chat.Members = []string{}
	}
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	return s.update("create", "chats", func(txn *badger.Txn) error {
		for _, memberID := range chat.Members {
			var user models.User
			if err := getDoc(txn, userKey(memberID), &user); err != nil {
				return err
			}
			if !containsString(user.Chats, chat.ID) {
				user.Chats = append(user.Chats, chat.ID)
				user.UpdatedAt = now
				if err := setDoc(txn, userKey(memberID), &user); err != nil {
					return err
				}
			}
		}
		return setDoc(txn, chatKey(chat.ID), chat)
	})
}

// GetChat loads a conversation by id.
func (s *Store) GetChat(_ context.Context, id string) (*models.Chat, error) {
	var chat models.Chat
	err := s.view("get", "chats", func(txn *badger.Txn) error {
		return getDoc(txn, chatKey(id), &chat)
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChats returns all conversations sorted by name.
func (s *Store) ListChats(_ context.Context) ([]*models.Chat, error) {
	var chats []*models.Chat
	err := s.view("list", "chats", func(txn *badger.Txn) error {
		return forEachDoc(txn, chatKeyPrefix, func(val []byte) error {
			var c models.Chat
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			chats = append(chats, &c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].Name < chats[j].Name
	})
	return chats, nil
}

// JoinChat adds the user to the conversation, mirrored on the user
// document. Joining twice is a no-op.
func (s *Store) JoinChat(_ context.Context, chatID, userID string) (*models.Chat, error) {
	var chat models.Chat
	err := s.update("join", "chats", func(txn *badger.Txn) error {
		if err := getDoc(txn, chatKey(chatID), &chat); err != nil {
			return err
		}
		var user models.User
		if err := getDoc(txn, userKey(userID), &user); err != nil {
			return err
		}

		now := time.Now().UTC()
		if !containsString(chat.Members, userID) {
			chat.Members = append(chat.Members, userID)
			chat.UpdatedAt = now
			if err := setDoc(txn, chatKey(chatID), &chat); err != nil {
				return err
			}
		}
		if !containsString(user.Chats, chatID) {
			user.Chats = append(user.Chats, chatID)
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
	return &chat, nil
}

// LeaveChatByHandle removes the user, looked up by handle, from the
// conversation and drops the mirror reference.
func (s *Store) LeaveChatByHandle(_ context.Context, chatID, handle string) (*models.Chat, error) {
	var chat models.Chat
	err := s.update("leave", "chats", func(txn *badger.Txn) error {
		userID, err := indexLookup(txn, userHandleKey(handle))
		if err != nil {
			return err
		}
		if err := getDoc(txn, chatKey(chatID), &chat); err != nil {
			return err
		}
		var user models.User
		if err := getDoc(txn, userKey(userID), &user); err != nil {
			return err
		}

		now := time.Now().UTC()
		chat.Members = removeString(chat.Members, userID)
		chat.UpdatedAt = now
		if err := setDoc(txn, chatKey(chatID), &chat); err != nil {
			return err
		}
		user.Chats = removeString(user.Chats, chatID)
		user.UpdatedAt = now
		return setDoc(txn, userKey(userID), &user)
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChat removes the conversation, its messages, and every
// member's mirror reference.
func (s *Store) DeleteChat(_ context.Context, id string) error {
	return s.update("delete", "chats", func(txn *badger.Txn) error {
		var chat models.Chat
		if err := getDoc(txn, chatKey(id), &chat); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, memberID := range chat.Members {
			var user models.User
			err := getDoc(txn, userKey(memberID), &user)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			user.Chats = removeString(user.Chats, id)
			user.UpdatedAt = now
			if err := setDoc(txn, userKey(memberID), &user); err != nil {
				return err
			}
		}

		// Collect message keys first; deleting while iterating is
		// not allowed.
		var msgKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		prefix := []byte(chatMsgPrefix(id))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			msgKeys = append(msgKeys, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, key := range msgKeys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete chat message: %w", err)
			}
		}

		if err := txn.Delete([]byte(chatKey(id))); err != nil {
			return fmt.Errorf("delete chat: %w", err)
		}
		return nil
	})
}

// AppendMessage persists a message in the conversation. Message ids
// are v7 uuids, so key order under the chat prefix is arrival order.
func (s *Store) AppendMessage(_ context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("message id: %w", err)
		}
		msg.ID = id.String()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}

	return s.update("append", "chat_messages", func(txn *badger.Txn) error {
		if err := getDoc(txn, chatKey(msg.ChatID), &models.Chat{}); err != nil {
			return err
		}
		if err := getDoc(txn, userKey(msg.UserID), &models.User{}); err != nil {
			return err
		}
		return setDoc(txn, chatMsgKey(msg.ChatID, msg.ID), msg)
	})
}

// ListMessages returns up to limit messages in chronological order,
// ending just before beforeID. An empty beforeID returns the latest
// messages.
func (s *Store) ListMessages(_ context.Context, chatID, beforeID string, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = 10
	}

	var messages []*models.ChatMessage
	err := s.view("list", "chat_messages", func(txn *badger.Txn) error {
		if err := getDoc(txn, chatKey(chatID), &models.Chat{}); err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(chatMsgPrefix(chatID))
		var seek []byte
		if beforeID == "" {
			// Reverse iteration starts past the last key of the prefix.
			seek = append(append([]byte{}, prefix...), 0xff)
		} else {
			seek = []byte(chatMsgKey(chatID, beforeID))
		}

		for it.Seek(seek); it.ValidForPrefix(prefix) && len(messages) < limit; it.Next() {
			// The seek key itself is excluded when paging backwards.
			if beforeID != "" && string(it.Item().Key()) == string(seek) {
				continue
			}
			var msg models.ChatMessage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			}); err != nil {
				return err
			}
			messages = append(messages, &msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
