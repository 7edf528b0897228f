// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

// Package validation wraps a singleton go-playground/validator v10 instance
// with field naming and message translation shared by configuration loading
// and user input checks.
//
// Field names in messages come from, in order: a `label` struct tag, the
// `koanf` tag, the Go field name. Nested paths are joined with dots and the
// root type name is dropped, so a config error reads "backend.url must be a
// valid URL" and a registration error reads "API key is required".
//
//	type registerInput struct {
//	    APIKey string `label:"API key" validate:"required,max=512,printascii"`
//	}
//	if verr := validation.ValidateStruct(in); verr != nil {
//	    return verr.First()
//	}
package validation
