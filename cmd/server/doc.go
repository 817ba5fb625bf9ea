// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

/*
Package main is the entry point for the ThisBook server.

ThisBook is a social backend for book clubs: accounts with role-based
access, a catalog of books and authors, clubs, events, persisted chats
with a realtime relay, comments, and category management.

The server initializes components in the following order:

 1. Configuration: layered load from defaults, config file, and
    environment variables (koanf v2)
 2. Logging: structured zerolog output, console or JSON
 3. Store: Badger document store with prefix-scanned collections
 4. Auth: JWT token manager and bearer-token middleware
 5. Relay: websocket chat hub with named groups
 6. HTTP server: chi router with per-group rate limits and metrics

The relay hub and the HTTP server run under a suture supervisor tree
with failure isolation between the two layers. SIGINT or SIGTERM
triggers a graceful shutdown with a bounded drain timeout.
*/
package main
