// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thisbookapp/thisbook/internal/models"
)

// defaultMessageWindow is the history page size when the client does
// not ask for one.
const defaultMessageWindow = 10

// ListChats returns all persisted chats.
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	chats, err := h.store.ListChats(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, chats, started)
}

// GetChat returns one chat by id.
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	chat, err := h.store.GetChat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, chat, started)
}

// ListMessages returns a chronological window of messages. Without a
// "before" query parameter it returns the latest window; with one it
// returns the window strictly before that message id.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	limit := getIntParam(r, "limit", defaultMessageWindow)
	messages, err := h.store.ListMessages(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("before"), limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, messages, started)
}

// CreateChat opens a conversation. Initial members get the chat pushed
// onto their chat lists.
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CreateChatRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	chat := &models.Chat{
		Name:    req.Name,
		Members: req.Members,
	}

	if err := h.store.CreateChat(r.Context(), chat); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, chat, started)
}

// PostMessage appends a persisted message to a chat.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.PostMessageRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	msg := &models.ChatMessage{
		ChatID: chi.URLParam(r, "id"),
		UserID: req.UserID,
		Text:   req.Text,
	}

	if err := h.store.AppendMessage(r.Context(), msg); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, msg, started)
}

// JoinChat adds a user to a chat; joining twice is a no-op.
func (h *Handler) JoinChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	chat, err := h.store.JoinChat(r.Context(), chi.URLParam(r, "chatID"), chi.URLParam(r, "userID"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, chat, started)
}

// LeaveChat removes a member, addressed by handle.
func (h *Handler) LeaveChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	chat, err := h.store.LeaveChatByHandle(r.Context(), chi.URLParam(r, "chatID"), chi.URLParam(r, "handle"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, chat, started)
}

// DeleteChat removes the chat, its messages, and the member mirrors.
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteChat(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": id}, started)
}
