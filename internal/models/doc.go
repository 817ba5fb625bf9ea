// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

// Package models defines the domain entities persisted in the document
// store (users, books, authors, clubs, events, chats, comments,
// categories), the request payloads accepted by the HTTP API, and the
// shared response envelope.
package models
