// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package validation

import (
	"strings"
	"testing"
	"time"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one shared instance")
	}
}

type credentials struct {
	APIKey     string `label:"API key" validate:"required,max=16,printascii"`
	DeviceName string `label:"Device name" validate:"max=10"`
}

func TestValidateStruct_Labels(t *testing.T) {
	tests := []struct {
		name string
		in   credentials
		want string
	}{
		{"valid", credentials{APIKey: "KEY"}, ""},
		{"missing key", credentials{}, "API key is required"},
		{"control chars", credentials{APIKey: "a\x01b"}, "API key is malformed"},
		{"key too long", credentials{APIKey: strings.Repeat("k", 17)}, "API key must be at most 16 characters"},
		{"name too long", credentials{APIKey: "KEY", DeviceName: "abcdefghijk"}, "Device name must be at most 10 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.in)
			if tt.want == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected %q", tt.want)
			}
			if verr.First() != tt.want {
				t.Errorf("First() = %q, want %q", verr.First(), tt.want)
			}
		})
	}
}

type nestedConfig struct {
	Backend struct {
		URL     string        `koanf:"url" validate:"required,url"`
		Prefix  string        `koanf:"api_prefix" validate:"required,startswith=/"`
		Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	} `koanf:"backend"`
	Logging struct {
		Level string `koanf:"level" validate:"oneof=debug info"`
	} `koanf:"logging"`
}

func TestValidateStruct_KoanfPaths(t *testing.T) {
	var c nestedConfig
	c.Backend.URL = "not a url"
	c.Backend.Prefix = "api"
	c.Logging.Level = "loud"

	verr := ValidateStruct(c)
	if verr == nil {
		t.Fatal("expected errors")
	}

	want := map[string]string{
		"backend.url":        "backend.url must be a valid URL",
		"backend.api_prefix": `backend.api_prefix must start with "/"`,
		"backend.timeout":    "backend.timeout must be greater than 0",
		"logging.level":      "logging.level must be one of: debug info",
	}
	got := make(map[string]string)
	for _, f := range verr.Fields() {
		got[f.Field] = f.Message
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: message = %q, want %q", field, got[field], msg)
		}
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() should join messages: %q", verr.Error())
	}
}

func TestErrors_Empty(t *testing.T) {
	e := &Errors{}
	if e.First() != "validation failed" || e.Error() != "validation failed" {
		t.Errorf("empty Errors = %q / %q", e.First(), e.Error())
	}
}

func TestFieldPath(t *testing.T) {
	tests := map[string]string{
		"Config.backend.url":    "backend.url",
		"registerInput.API key": "API key",
		"bare":                  "bare",
	}
	for in, want := range tests {
		if got := fieldPath(in); got != want {
			t.Errorf("fieldPath(%q) = %q, want %q", in, got, want)
		}
	}
}
