// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
Package config loads and validates session-client configuration.

Sources are layered with Koanf v2 (highest priority last):

 1. Built-in defaults
 2. YAML file from CONFIG_PATH, ./lancache-session.yaml or /etc/lancache-manager/session.yaml
 3. Environment variables

# Environment Variables

Backend:
  - LANCACHE_URL: dashboard base URL (default: http://localhost:8080)
  - LANCACHE_API_PREFIX: API path prefix (default: /api)
  - LANCACHE_TIMEOUT: per-request timeout (default: 30s)
  - LANCACHE_RATE_LIMIT / LANCACHE_RATE_BURST: outgoing request budget (default: 20/s, burst 40)

Session:
  - SESSION_POLL_INTERVAL: validity poll interval (default: 30s)
  - SESSION_HEARTBEAT: last-seen heartbeat interval (default: 60s)
  - SESSION_SETTLE_DELAY: max wait after device registration (default: 500ms)
  - SESSION_DEDUP_WINDOW: revocation event dedup window (default: 5s)
  - SESSION_CHECK_TIMEOUT: auth status check timeout (default: 15s)
  - SESSION_STATE_DIR: BadgerDB directory for the session marker (default: in-memory)

Push and identity:
  - PUSH_ENABLED, PUSH_URL: revocation websocket (default: enabled, derived from LANCACHE_URL)
  - DEVICE_NAME: device name sent with guest and device registration

Status server:
  - STATUS_ENABLED, STATUS_LISTEN, STATUS_CORS_ORIGINS, STATUS_RATE_LIMIT, STATUS_RATE_WINDOW

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Struct tags are checked with go-playground/validator; cross-field rules
(check timeout within request timeout, settle delay shorter than the poll
interval) live in config_validate.go.
*/
package config
