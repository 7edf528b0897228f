// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
Package supervisor runs the client's long-lived background services under a
suture v4 supervisor tree.

	RootSupervisor ("lancache-session")
	├── SessionSupervisor ("session-layer")
	│   ├── session-poller
	│   ├── session-heartbeat
	│   └── push-client (if push.enabled)
	└── APISupervisor ("api-layer")
	    └── status-server (if status.enabled)

A crash in the push client restarts only that service; the status server
keeps answering state queries from the in-memory manager.

Supervisor events are logged through sutureslog using the slog adapter from
internal/logging:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddSessionService(services.NewRunnerService("session-poller", poller))
	tree.AddAPIService(services.NewHTTPServerService("status-server", srv, 5*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
