// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/billboard/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global Middleware Stack
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(chiMiddleware(middleware.SecurityHeaders))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, r, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Health endpoints do not count as display activity.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(chiMiddleware(middleware.NoCache))
		r.Get("/live", h.HealthLive)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.NoCache))
		r.Use(chiMiddleware(middleware.Activity(h.power)))

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.ClientID))
			r.Get("/current-media", h.CurrentMedia)
			r.Get("/next-media", h.NextMedia)
			r.Get("/previous-media", h.PreviousMedia)
			r.Get("/session", h.Session)
			r.Delete("/session", h.ResetSession)
		})

		r.Get("/media-list", h.MediaList)
		r.Get("/server-status", h.ServerStatusHandler)
		r.Get("/schedule", h.Schedule)
		r.With(router.chiMiddleware.RateLimitSync()).Post("/sync", h.TriggerSync)
	})

	r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", h.WebSocket)
	r.Get("/media/{name}", h.ServeMedia)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
