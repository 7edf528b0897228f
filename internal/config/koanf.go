// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"lancache-session.yaml",
	"lancache-session.yml",
	"/etc/lancache-manager/session.yaml",
	"/etc/lancache-manager/session.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default filled in.
func defaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:       "http://localhost:8080",
			APIPrefix: "/api",
			Timeout:   30 * time.Second,
			RateLimit: 20,
			RateBurst: 40,
		},
		Session: SessionConfig{
			PollInterval:      30 * time.Second,
			HeartbeatInterval: 60 * time.Second,
			SettleDelay:       500 * time.Millisecond,
			DedupWindow:       5 * time.Second,
			CheckTimeout:      15 * time.Second,
			StateDir:          "",
		},
		Push: PushConfig{
			Enabled: true,
		},
		Status: StatusConfig{
			Enabled:     false,
			Listen:      "127.0.0.1:8787",
			CORSOrigins: []string{"http://localhost:3000"},
			RateLimit:   120,
			RateWindow:  time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config File (optional)
//  3. Environment Variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

// LoadFile loads configuration using an explicit config file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return loadFrom(path)
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// LANCACHE_URL -> backend.url, SESSION_POLL_INTERVAL -> session.poll_interval
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"status.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot pollute config.
var envMappings = map[string]string{
	"lancache_url":          "backend.url",
	"lancache_api_prefix":   "backend.api_prefix",
	"lancache_timeout":      "backend.timeout",
	"lancache_rate_limit":   "backend.rate_limit",
	"lancache_rate_burst":   "backend.rate_burst",
	"session_poll_interval": "session.poll_interval",
	"session_heartbeat":     "session.heartbeat_interval",
	"session_settle_delay":  "session.settle_delay",
	"session_dedup_window":  "session.dedup_window",
	"session_check_timeout": "session.check_timeout",
	"session_state_dir":     "session.state_dir",
	"push_enabled":          "push.enabled",
	"push_url":              "push.url",
	"device_name":           "identity.device_name",
	"status_enabled":        "status.enabled",
	"status_listen":         "status.listen",
	"status_cors_origins":   "status.cors_origins",
	"status_rate_limit":     "status.rate_limit",
	"status_rate_window":    "status.rate_window",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_caller":            "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
