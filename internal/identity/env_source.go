// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package identity

import (
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"
)

// machineIDPaths are checked in order; the first readable one wins.
var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// EnvSource reads fingerprint signals from the running process environment.
type EnvSource struct {
	// Client is reported as the "browser" in device descriptions.
	Client string
}

// Signals implements Source. Every lookup is best effort.
func (e EnvSource) Signals() Signals {
	s := Signals{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		MachineID: readMachineID(),
		Locale:    firstEnv("LC_ALL", "LANG"),
		Timezone:  timezone(),
		Client:    e.Client,
	}
	if h, err := os.Hostname(); err == nil {
		s.Hostname = h
	}
	if u, err := user.Current(); err == nil {
		s.Username = u.Username
		s.HomeDir = u.HomeDir
	}
	return s
}

func readMachineID() string {
	for _, path := range machineIDPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}
	return ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func timezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	return time.Local.String()
}
