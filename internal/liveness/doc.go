// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
Package liveness runs the periodic background checks that keep the local
auth state honest:

  - Poller lists the backend's sessions while authenticated and treats a
    missing device as an administrator revocation.
  - Heartbeat touches the session's last-seen timestamp while authenticated
    or in guest mode.

Both skip while a registration is in flight and swallow network errors;
only an explicit absence from the session list (or a 401, routed by the
transport) changes state. Each exposes RunWithContext and runs under the
suture supervisor.
*/
package liveness
