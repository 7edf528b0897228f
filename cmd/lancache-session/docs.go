// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package main

// General API information for the local status server. The generated
// description lives in the docs package; regenerate it with:
//
//	swag init -g cmd/lancache-session/docs.go -o docs --parseInternal
//
// @title LANCache Manager Session Status API
// @version 1.0
// @description Local status surface of the lancache-session client.
// @description
// @description UI layers read the current auth state, trigger auth checks,
// @description leave guest mode and follow session events over a websocket.
// @description
// @description ## Rate Limiting
// @description
// @description Routes under /api are rate limited per client IP (status.rate_limit per status.rate_window).
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description { "code": "ERROR_CODE", "message": "Human-readable error message" }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/lancache-manager/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host 127.0.0.1:8787
// @BasePath /
// @schemes http
//
// @tag.name Core
// @tag.description Liveness of the status server
//
// @tag.name Auth
// @tag.description Session auth state and actions
//
// @tag.name Events
// @tag.description Websocket stream of session events
