// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

/*
Package supervisor provides process supervision for ThisBook using suture v4.

It implements a small hierarchical supervisor tree with Erlang-style
automatic restart, failure isolation, and graceful shutdown:

	RootSupervisor ("thisbook")
	├── RelaySupervisor ("relay-layer")
	│   └── RelayHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the relay hub restarts the hub without interrupting the
REST API, and vice versa. Supervisor events are logged through a
sutureslog hook bridged to the zerolog-backed slog adapter.
*/
package supervisor
