// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
Package middleware provides HTTP middleware for the local status server.

  - RequestID: propagates or assigns X-Request-ID and attaches request and
    correlation ids to the logging context.
  - PrometheusMetrics: counts requests and observes latency labeled by chi
    route pattern, so path parameters never explode label cardinality.

Both are plain func(http.Handler) http.Handler and compose with chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

The metrics wrapper keeps http.Hijacker working so the websocket event
stream can upgrade through it.
*/
package middleware
