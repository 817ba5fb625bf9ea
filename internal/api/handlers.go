// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thisbookapp/thisbook/internal/auth"
	"github.com/thisbookapp/thisbook/internal/config"
	"github.com/thisbookapp/thisbook/internal/logging"
	"github.com/thisbookapp/thisbook/internal/metrics"
	"github.com/thisbookapp/thisbook/internal/relay"
	"github.com/thisbookapp/thisbook/internal/store"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Handler carries the dependencies shared by all HTTP handlers.
//
// Handler methods are split across files by resource:
//   - handlers.go: struct, constructor, health, websocket upgrade
//   - handlers_auth.go: signup, signin, verify
//   - handlers_users.go ... handlers_management.go: entity endpoints
type Handler struct {
	cfg    *config.Config
	store  *store.Store
	tokens *auth.TokenManager
	gate   *auth.Middleware
	hub    *relay.Hub
	start  time.Time
}

// NewHandler creates a Handler wired to the given store, token manager,
// auth gate, and relay hub.
func NewHandler(cfg *config.Config, st *store.Store, tokens *auth.TokenManager, gate *auth.Middleware, hub *relay.Hub) *Handler {
	return &Handler{
		cfg:    cfg,
		store:  st,
		tokens: tokens,
		gate:   gate,
		hub:    hub,
		start:  time.Now(),
	}
}

// Health reports process liveness, uptime, and relay occupancy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	metrics.AppUptime.Set(time.Since(h.start).Seconds())

	payload := map[string]interface{}{
		"status":     "ok",
		"version":    Version,
		"go_version": runtime.Version(),
		"uptime_s":   int64(time.Since(h.start).Seconds()),
	}
	if h.hub != nil {
		payload["relay_clients"] = h.hub.ClientCount()
		payload["relay_groups"] = h.hub.GroupCount()
	}
	respondData(w, http.StatusOK, payload, started)
}

// HealthLive is a minimal liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "live"}, time.Now())
}

// HealthReady reports readiness. The store is embedded, so readiness
// tracks presence of the handle rather than a remote ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "store not ready", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, time.Now())
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow-client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates the Origin header against the configured
// CORS origins. Requests without an Origin header (non-browser clients)
// are accepted.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// WebSocket upgrades the connection and hands it to the relay hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "relay unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	client := relay.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
