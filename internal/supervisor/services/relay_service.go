// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package services

import (
	"context"
)

// ContextHub matches *relay.Hub's RunWithContext method without
// importing the relay package.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// RelayHubService wraps the chat relay hub as a supervised service.
// The hub's RunWithContext already follows the suture.Service pattern,
// so this wrapper delegates and provides a name for logging.
type RelayHubService struct {
	hub  ContextHub
	name string
}

// NewRelayHubService creates a new relay hub service wrapper.
func NewRelayHubService(hub ContextHub) *RelayHubService {
	return &RelayHubService{
		hub:  hub,
		name: "relay-hub",
	}
}

// Serve implements suture.Service. It returns ctx.Err() on normal
// shutdown after the hub has closed all clients.
func (s *RelayHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *RelayHubService) String() string {
	return s.name
}
