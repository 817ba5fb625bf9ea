// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thisbookapp/thisbook/internal/auth"
	"github.com/thisbookapp/thisbook/internal/config"
	"github.com/thisbookapp/thisbook/internal/relay"
	"github.com/thisbookapp/thisbook/internal/store"
)

// Router wires handlers, auth gates, and middleware into a chi tree.
type Router struct {
	cfg     *config.Config
	handler *Handler
	gate    *auth.Middleware
	chiMW   *ChiMiddleware
}

// NewRouter builds the router and its handler set.
func NewRouter(cfg *config.Config, st *store.Store, tokens *auth.TokenManager, hub *relay.Hub) *Router {
	gate := auth.NewMiddleware(tokens, st)

	return &Router{
		cfg:     cfg,
		handler: NewHandler(cfg, st, tokens, gate, hub),
		gate:    gate,
		chiMW: NewChiMiddleware(&ChiMiddlewareConfig{
			CORSAllowedOrigins:   cfg.Security.CORSOrigins,
			CORSAllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowedHeaders:   []string{"Content-Type", "Authorization"},
			CORSAllowCredentials: false,
			CORSMaxAge:           86400,
			RateLimitDisabled:    cfg.Security.RateLimitDisabled,
		}),
	}
}

// Setup configures all HTTP routes.
//
// Route groups mirror the resource layout: /auth is public with strict
// limits, every entity group sits behind the token gate, /management and
// role mutations behind the admin gate, and catalog writes behind the
// writer gate.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Global middleware, applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())

	// Health
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMW.RateLimitForHealth())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Authentication: public, strict limits against brute force
	r.Route("/auth", func(r chi.Router) {
		r.Use(router.chiMW.RateLimitForAuth())
		r.Use(PrometheusMetrics())

		r.Post("/signup", h.SignUp)
		r.With(router.chiMW.RateLimitForLogin()).Post("/signin", h.SignIn)
		r.Post("/verify", h.Verify)
	})

	// Users: role mutations are admin-only
	r.Route("/user", func(r chi.Router) {
		router.entityGroup(r)

		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Get("/byhandle/{handle}", h.GetUserByHandle)
		r.Post("/", h.CreateUser)
		r.Post("/{id}/password", h.ChangePassword)
		r.Put("/{id}", h.UpdateUser)
		r.Put("/{id}/enable", h.EnableUser)
		r.With(router.gate.RequireAdmin).Put("/{id}/roles", h.AddUserRole)
		r.With(router.gate.RequireAdmin).Delete("/{id}/roles/{role}", h.RemoveUserRole)
		r.Delete("/{id}", h.DeleteUser)
		r.Delete("/byhandle/{handle}", h.DeleteUserByHandle)
	})

	// Books: writes require the writer role
	r.Route("/book", func(r chi.Router) {
		router.entityGroup(r)

		r.Get("/", h.ListBooks)
		r.Get("/{id}", h.GetBook)
		r.Get("/category/{category}", h.ListBooksByCategory)
		r.Get("/released/{date}", h.ListBooksByReleaseDate)
		r.With(router.gate.RequireWriter).Post("/", h.CreateBook)
		r.With(router.gate.RequireWriter).Put("/{id}", h.UpdateBook)
		r.With(router.gate.RequireWriter).Delete("/{id}", h.DeleteBook)
	})

	// Authors: writes require the writer role
	r.Route("/author", func(r chi.Router) {
		router.entityGroup(r)

		r.Get("/", h.ListAuthors)
		r.Get("/{id}", h.GetAuthor)
		r.With(router.gate.RequireWriter).Post("/", h.CreateAuthor)
		r.With(router.gate.RequireWriter).Put("/{id}", h.UpdateAuthor)
		r.With(router.gate.RequireWriter).Delete("/{id}", h.DeleteAuthor)
	})

	// Clubs
	r.Route("/club", func(r chi.Router) {
		router.entityGroup(r)

		r.Get("/", h.ListClubs)
		r.Get("/{id}", h.GetClub)
		r.Post("/", h.CreateClub)
		r.Put("/subscribe", h.SubscribeClub)
		r.Put("/unsubscribe", h.UnsubscribeClub)
		r.Put("/{id}", h.UpdateClub)
		r.Delete("/{id}", h.DeleteClub)
	})

	// Events
	r.Route("/event", func(r chi.Router) {
		router.entityGroup(r)

		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)
		r.Post("/", h.CreateEvent)
		r.Put("/subscribe", h.SubscribeEvent)
		r.Put("/unsubscribe", h.UnsubscribeEvent)
		r.Put("/{id}", h.UpdateEvent)
		r.Delete("/{id}", h.DeleteEvent)
	})

	// Persisted chats and message history
	r.Route("/chat", func(r chi.Router) {
		router.entityGroup(r)

		r.Get("/", h.ListChats)
		r.Get("/{id}", h.GetChat)
		r.Get("/{id}/messages", h.ListMessages)
		r.Post("/", h.CreateChat)
		r.Post("/{id}/messages", h.PostMessage)
		r.Put("/join/{chatID}/{userID}", h.JoinChat)
		r.Delete("/leave/{chatID}/{handle}", h.LeaveChat)
		r.Delete("/{id}", h.DeleteChat)
	})

	// Comments: writes require the writer role
	r.Route("/comment", func(r chi.Router) {
		router.entityGroup(r)

		r.Get("/", h.ListComments)
		r.Get("/type/{type}", h.ListCommentsByType)
		r.Get("/{id}", h.GetComment)
		r.With(router.gate.RequireWriter).Post("/", h.CreateComment)
		r.With(router.gate.RequireWriter).Put("/{id}", h.UpdateComment)
		r.With(router.gate.RequireWriter).Delete("/{id}", h.DeleteComment)
	})

	// Management: admin only
	r.Route("/management", func(r chi.Router) {
		router.entityGroup(r)
		r.Use(router.gate.RequireAdmin)

		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)
		r.Put("/users/{id}/categories", h.SetUserCategories)
	})

	// Realtime relay: public upgrade, limited connection rate
	r.With(router.chiMW.RateLimitForWebSocket()).Get("/ws", h.WebSocket)

	// Observability
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// entityGroup applies the middleware shared by all authenticated entity
// route groups.
func (router *Router) entityGroup(r chi.Router) {
	r.Use(router.chiMW.RateLimit())
	r.Use(PrometheusMetrics())
	r.Use(router.gate.Authenticate)
}

// chiRouteContext returns the matched chi route pattern, if any.
func chiRouteContext(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
