// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package relay

import (
	"context"
	"sort"
	"sync"

	"github.com/thisbookapp/thisbook/internal/config"
	"github.com/thisbookapp/thisbook/internal/logging"
	"github.com/thisbookapp/thisbook/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types understood by the relay. Anything else is dropped.
const (
	MessageTypeJoin    = "join"
	MessageTypeMessage = "message"
)

// Message is the wire frame exchanged over a relay connection.
// Join frames carry only a group name; message frames carry a group
// name and an opaque data payload that is relayed verbatim.
type Message struct {
	Type  string      `json:"type"`
	Group string      `json:"group,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// inbound pairs a frame with the client that sent it so the hub can
// resolve group membership for join frames.
type inbound struct {
	client *Client
	msg    Message
}

// Hub maintains the set of active clients and the group registry, and
// fans inbound message frames out to group members.
type Hub struct {
	clients map[*Client]bool
	// groups maps a group name to its member set. Membership is
	// per-connection: a client that disconnects leaves every group.
	groups map[string]map[*Client]bool

	inbound    chan inbound
	Register   chan *Client
	Unregister chan *Client

	cfg config.RelayConfig
	mu  sync.RWMutex
}

// NewHub creates a new Hub using the given relay configuration.
func NewHub(cfg config.RelayConfig) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		groups:     make(map[string]map[*Client]bool),
		inbound:    make(chan inbound, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		cfg:        cfg,
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// This method is designed for use with suture supervision.
//
// When the context is canceled all connected clients are closed and the
// method returns ctx.Err(), so a supervisor can restart the hub without
// leaving orphaned connections.
//
// DETERMINISM: Uses priority-based selection to ensure predictable behavior:
// - Priority 1: Context cancellation (shutdown)
// - Priority 2: Client lifecycle events (Register/Unregister)
// - Priority 3: Inbound frames
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: Check for shutdown (highest priority, non-blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: Handle client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: Handle inbound frames or wait for any event (blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.addClient(client)

		case client := <-h.Unregister:
			h.removeClient(client)

		case in := <-h.inbound:
			h.dispatch(in)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	groups := len(h.groups)
	h.mu.Unlock()
	metrics.UpdateRelayGauges(total, groups)
	logging.Info().Int("total_clients", total).Msg("relay client connected")
}

// removeClient drops the client from the registry and every group it
// joined, then closes its send channel.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		for name, members := range h.groups {
			delete(members, client)
			if len(members) == 0 {
				delete(h.groups, name)
			}
		}
		close(client.send)
	}
	total := len(h.clients)
	groups := len(h.groups)
	h.mu.Unlock()
	metrics.UpdateRelayGauges(total, groups)
	logging.Info().Int("total_clients", total).Msg("relay client disconnected")
}

// dispatch routes one inbound frame. Join frames update the group
// registry; message frames fan out to the group. Frames with an
// unrecognized type or an empty group name are dropped.
func (h *Hub) dispatch(in inbound) {
	if in.msg.Group == "" {
		metrics.RelayFramesDropped.WithLabelValues("empty_group").Inc()
		return
	}

	switch in.msg.Type {
	case MessageTypeJoin:
		h.joinGroup(in.client, in.msg.Group)
	case MessageTypeMessage:
		metrics.RelayMessagesReceived.Inc()
		h.broadcastToGroup(in.msg.Group, in.msg)
	default:
		metrics.RelayFramesDropped.WithLabelValues("unrecognized").Inc()
		logging.Debug().Str("type", in.msg.Type).Msg("dropping unrecognized relay frame")
	}
}

// joinGroup adds the client to the named group. Joining a group the
// client already belongs to is a no-op.
func (h *Hub) joinGroup(client *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client] {
		return
	}
	members, ok := h.groups[group]
	if !ok {
		members = make(map[*Client]bool)
		h.groups[group] = members
	}
	if members[client] {
		return
	}
	members[client] = true
	metrics.UpdateRelayGauges(len(h.clients), len(h.groups))
	logging.Debug().Str("group", group).Int("members", len(members)).Msg("relay client joined group")
}

// broadcastToGroup sends a message to every member of the group,
// including the sender, in a deterministic order.
// DETERMINISM: Sorts members by client ID to ensure consistent delivery
// order, which keeps tests reproducible.
func (h *Hub) broadcastToGroup(group string, message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := make([]*Client, 0, len(h.groups[group]))
	for client := range h.groups[group] {
		members = append(members, client)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].id < members[j].id
	})

	// Track clients to remove (can't modify map during iteration)
	var toRemove []*Client

	for _, client := range members {
		select {
		case client.send <- message:
			metrics.RelayMessagesSent.Inc()
		default:
			// Channel full or closed, mark for removal
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		for name, groupMembers := range h.groups {
			delete(groupMembers, client)
			if len(groupMembers) == 0 {
				delete(h.groups, name)
			}
		}
	}
	if len(toRemove) > 0 {
		metrics.UpdateRelayGauges(len(h.clients), len(h.groups))
	}
}

// logGracefulShutdown closes all connected clients and logs structured
// shutdown information. ctx.Err() is not logged as an error because
// context cancellation is expected during graceful shutdown.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.ClientCount()

	h.closeAllClients()

	reason := getShutdownReason(ctx)

	logging.Info().
		Str("component", "relay-hub").
		Str("reason", string(reason)).
		Int("clients_closed", clientCount).
		Msg("relay hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// closeAllClients closes all connected clients during shutdown.
// DETERMINISM: Closes clients in ID order for consistent shutdown behavior.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.groups = make(map[string]map[*Client]bool)
	metrics.UpdateRelayGauges(0, 0)
	logging.Info().Msg("closed all relay clients during shutdown")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GroupCount returns the number of groups with at least one member.
func (h *Hub) GroupCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups)
}

// GroupSize returns the number of members in the named group.
func (h *Hub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}
