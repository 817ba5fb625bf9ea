// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package models

import (
	"time"
)

// Chat is a persisted conversation. Members holds user ids and is
// mirrored on each member's Chats list. Messages live as separate
// documents (ChatMessage) keyed under the chat id.
//
// The realtime relay is a separate, in-memory surface; nothing bridges
// relay traffic into these documents.
type Chat struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is one persisted message in a chat. IDs are time-ordered
// v7 uuids assigned by the store, so lexical key order is arrival order.
type ChatMessage struct {
	ID     string    `json:"id"`
	ChatID string    `json:"chat_id"`
	UserID string    `json:"user_id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// CreateChatRequest is the payload for POST /chat. Members may list
// initial user ids; each gets the chat pushed onto its Chats list.
type CreateChatRequest struct {
	Name    string   `json:"name" validate:"required,min=1,max=120"`
	Members []string `json:"members" validate:"omitempty,dive,uuid"`
}

// PostMessageRequest appends a message via POST /chat/{id}/messages.
type PostMessageRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Text   string `json:"text" validate:"required,min=1,max=4000"`
}
