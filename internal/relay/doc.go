// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

// Package relay implements the realtime chat relay. A Hub owns a registry
// of named groups; connected clients join groups and exchange messages
// that fan out to every member of the group, including the sender.
//
// The relay is intentionally decoupled from chat persistence. Messages
// passing through it are not written to the store, and group names carry
// no relation to stored chat documents beyond whatever convention clients
// adopt.
package relay
