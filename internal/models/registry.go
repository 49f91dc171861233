// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package models

import (
	"context"
	"strings"
)

// StatusAdapter is implemented once per backend. FetchStatus never returns
// an error: every failure mode is folded into the ServiceStatus record.
type StatusAdapter interface {
	FetchStatus(ctx context.Context, url string, creds Credentials) ServiceStatus
}

// Adapter creation hooks, set by each service package's init so that models
// does not import the service packages.
var (
	NewSonarrAdapter       func() StatusAdapter
	NewRadarrAdapter       func() StatusAdapter
	NewJackettAdapter      func() StatusAdapter
	NewTransmissionAdapter func() StatusAdapter
	NewPlexAdapter         func() StatusAdapter
	NewJellyfinAdapter     func() StatusAdapter
	NewEmbyAdapter         func() StatusAdapter
)

// AdapterCreator builds status adapters from a backend identifier.
type AdapterCreator interface {
	CreateAdapter(backend string) StatusAdapter
}

// AdapterRegistry is the default AdapterCreator.
type AdapterRegistry struct{}

// CreateAdapter returns the adapter for the given backend identifier, or nil
// for an unknown backend.
func (r *AdapterRegistry) CreateAdapter(backend string) StatusAdapter {
	switch strings.ToLower(backend) {
	case "sonarr":
		if NewSonarrAdapter != nil {
			return NewSonarrAdapter()
		}
	case "radarr":
		if NewRadarrAdapter != nil {
			return NewRadarrAdapter()
		}
	case "jackett":
		if NewJackettAdapter != nil {
			return NewJackettAdapter()
		}
	case "transmission":
		if NewTransmissionAdapter != nil {
			return NewTransmissionAdapter()
		}
	case "plex":
		if NewPlexAdapter != nil {
			return NewPlexAdapter()
		}
	case "jellyfin":
		if NewJellyfinAdapter != nil {
			return NewJellyfinAdapter()
		}
	case "emby":
		if NewEmbyAdapter != nil {
			return NewEmbyAdapter()
		}
	}
	return nil
}

// NewAdapterRegistry creates a new instance of AdapterRegistry.
func NewAdapterRegistry() AdapterCreator {
	return &AdapterRegistry{}
}
