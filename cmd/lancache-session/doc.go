// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
Command lancache-session is the dashboard session client for LANCache Manager.

One-shot commands check or change this device's session and exit:

	lancache-session status [--json]
	lancache-session guest
	lancache-session login --api-key KEY [--device-name NAME]
	lancache-session logout
	lancache-session regenerate-key

watch keeps the session honest in the foreground: it runs the validity
poller, the heartbeat, the push channel and (when status.enabled) the local
status server under a supervisor tree, and prints every auth event.

Configuration comes from defaults, an optional YAML file (--config or
CONFIG_PATH) and environment variables such as LANCACHE_URL. See
internal/config for the full list.
*/
package main
