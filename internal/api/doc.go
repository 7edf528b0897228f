// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
Package api serves the local status surface that UI layers use to follow the
session client.

Routes:

	GET  /healthz               liveness check
	GET  /metrics               Prometheus exposition
	GET  /swagger/*             OpenAPI document and Swagger UI (swaggo/http-swagger)
	GET  /api/auth/state        current auth state snapshot
	POST /api/auth/check        run CheckAuth against the backend and return the result
	POST /api/auth/guest/exit   leave guest or expired mode (409 otherwise)
	GET  /api/events            websocket stream of bus events (?types=a,b filters)

The /api routes are rate limited per client IP with go-chi/httprate and
share the go-chi/cors policy configured under status.cors_origins.

Handlers carry swag annotations; the generated document is in the docs
package at the module root.
*/
package api
