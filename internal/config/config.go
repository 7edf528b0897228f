// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package config

import (
	"net/url"
	"strings"
	"time"
)

// Config holds all session-client configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in defaults (defaultConfig)
//  2. Config File: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment Variables: mapped names such as LANCACHE_URL, SESSION_POLL_INTERVAL
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Backend  BackendConfig  `koanf:"backend"`
	Session  SessionConfig  `koanf:"session"`
	Push     PushConfig     `koanf:"push"`
	Identity IdentityConfig `koanf:"identity"`
	Status   StatusConfig   `koanf:"status"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// BackendConfig describes how to reach the LANCache Manager API.
type BackendConfig struct {
	// URL is the dashboard base URL, e.g. http://lancache.local:8080
	URL string `koanf:"url" validate:"required,url"`

	// APIPrefix is prepended to every endpoint path.
	APIPrefix string `koanf:"api_prefix" validate:"required,startswith=/"`

	// Timeout bounds every HTTP request. Auth calls must not hang forever.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimit is the sustained outgoing request budget per second (0 = unlimited).
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`

	// RateBurst is the burst size for RateLimit.
	RateBurst int `koanf:"rate_burst" validate:"gte=1"`
}

// SessionConfig tunes the auth state machine and its background checks.
type SessionConfig struct {
	// PollInterval is how often the validity poller lists sessions.
	PollInterval time.Duration `koanf:"poll_interval" validate:"gte=1s"`

	// HeartbeatInterval is how often last-seen is refreshed.
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval" validate:"gte=1s"`

	// SettleDelay is the maximum wait after a successful device registration
	// for the backend to finish removing the superseded guest session.
	SettleDelay time.Duration `koanf:"settle_delay" validate:"gte=0"`

	// DedupWindow suppresses identical revocation events from different channels.
	DedupWindow time.Duration `koanf:"dedup_window" validate:"gt=0"`

	// CheckTimeout bounds a single auth status check.
	CheckTimeout time.Duration `koanf:"check_timeout" validate:"gt=0"`

	// StateDir holds the durable session marker (BadgerDB). Empty keeps it in memory.
	StateDir string `koanf:"state_dir"`
}

// PushConfig configures the inbound revocation channel.
type PushConfig struct {
	Enabled bool `koanf:"enabled"`

	// URL is the websocket endpoint. Derived from Backend.URL when empty.
	URL string `koanf:"url" validate:"omitempty,url"`
}

// IdentityConfig overrides parts of the derived device description.
type IdentityConfig struct {
	// DeviceName replaces the hostname in guest registration bodies.
	DeviceName string `koanf:"device_name" validate:"max=100"`
}

// StatusConfig configures the local status server for UI layers.
type StatusConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Listen      string        `koanf:"listen" validate:"required_if=Enabled true"`
	CORSOrigins []string      `koanf:"cors_origins"`
	RateLimit   int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow  time.Duration `koanf:"rate_window" validate:"gte=0"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// PushURL returns the websocket URL for revocation pushes, derived from the
// backend URL (http -> ws, https -> wss, path /hubs/sessions) when not set.
func (c *Config) PushURL() string {
	if c.Push.URL != "" {
		return c.Push.URL
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/hubs/sessions"
	return u.String()
}
