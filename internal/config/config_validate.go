// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/lancache-manager/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}

	if err := c.validateBackend(); err != nil {
		return err
	}
	return c.validateSession()
}

func (c *Config) validateBackend() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url must use http or https, got %q", u.Scheme)
	}
	if strings.HasSuffix(c.Backend.APIPrefix, "/") && c.Backend.APIPrefix != "/" {
		return fmt.Errorf("backend.api_prefix must not end with '/': %q", c.Backend.APIPrefix)
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.CheckTimeout > c.Backend.Timeout {
		return fmt.Errorf("session.check_timeout (%v) must not exceed backend.timeout (%v)",
			c.Session.CheckTimeout, c.Backend.Timeout)
	}
	// The settle delay sits inside a registration request's lifetime.
	if c.Session.SettleDelay >= c.Session.PollInterval {
		return fmt.Errorf("session.settle_delay (%v) must be shorter than session.poll_interval (%v)",
			c.Session.SettleDelay, c.Session.PollInterval)
	}
	return nil
}
