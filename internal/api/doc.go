// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

/*
Package api provides the HTTP REST API layer for ThisBook.

It exposes the resource groups of the platform over chi routes with a
shared middleware stack:

  - Router: route configuration and middleware wiring
  - Handler: request handlers for auth, users, books, authors, clubs,
    events, chats, comments, and category management
  - Response formatting: a standardized JSON envelope with metadata
  - Error handling: consistent error bodies with stable error codes
  - Authentication: bearer token gate with role checks via middleware
  - Rate limiting: per-IP limits tuned per route group
  - CORS: configurable allowed origins shared with the relay upgrade

All entity groups require a valid bearer token. Catalog writes (books,
authors, comments) additionally require the writer role; category
management and role mutations require the admin role. The /auth group
and the /ws relay upgrade are public.
*/
package api
