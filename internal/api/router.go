// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tomtom215/lancache-manager/docs"
	"github.com/tomtom215/lancache-manager/internal/config"
	"github.com/tomtom215/lancache-manager/internal/events"
	"github.com/tomtom215/lancache-manager/internal/middleware"
	"github.com/tomtom215/lancache-manager/internal/session"
)

// StateProvider is the session surface the handlers read. *session.Manager
// implements it.
type StateProvider interface {
	State() session.State
	DeviceID() string
	CheckAuth(ctx context.Context) session.CheckResult
	ExitGuestMode()
}

// EventSource streams bus events. *events.Bus implements it.
type EventSource interface {
	Subscribe(ctx context.Context, types ...events.Type) (<-chan events.Event, error)
}

var (
	_ StateProvider = (*session.Manager)(nil)
	_ EventSource   = (*events.Bus)(nil)
)

// Handler serves the status routes.
type Handler struct {
	state      StateProvider
	events     EventSource
	origins    []string
	checkLimit time.Duration
}

// NewHandler creates a Handler. events may be nil, in which case the event
// stream answers 503.
func NewHandler(state StateProvider, source EventSource, allowedOrigins []string) (*Handler, error) {
	if state == nil {
		return nil, errors.New("api: state provider is required")
	}
	return &Handler{
		state:      state,
		events:     source,
		origins:    allowedOrigins,
		checkLimit: 20 * time.Second,
	}, nil
}

// NewRouter builds the chi router.
func NewRouter(h *Handler, cfg MiddlewareConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(corsMiddleware(cfg))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(cfg))

		r.Get("/auth/state", h.AuthState)
		r.Post("/auth/check", h.AuthCheck)
		r.Post("/auth/guest/exit", h.ExitGuest)
		r.Get("/events", h.Events)
	})

	return r
}

// NewServer builds the status http.Server from configuration.
func NewServer(cfg config.StatusConfig, h *Handler) *http.Server {
	mw := DefaultMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.CORSOrigins
	if cfg.RateLimit > 0 {
		mw.RateLimitRequests = cfg.RateLimit
	}
	if cfg.RateWindow > 0 {
		mw.RateLimitWindow = cfg.RateWindow
	}

	return &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewRouter(h, mw),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
