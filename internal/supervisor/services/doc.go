// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

/*
Package services provides suture.Service wrappers for ThisBook components.

Each wrapper adapts a component lifecycle (ListenAndServe, RunWithContext)
to suture's context-aware Serve pattern and identifies itself via
fmt.Stringer for supervisor logging.
*/
package services
