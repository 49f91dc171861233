// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package models

import (
	"testing"
)

func TestNewAdapterRegistry(t *testing.T) {
	registry := NewAdapterRegistry()
	if registry == nil {
		t.Error("Expected non-nil registry")
	}
}

func TestCreateAdapter(t *testing.T) {
	registry := NewAdapterRegistry()

	// Unknown backends yield nil.
	if adapter := registry.CreateAdapter("overseerr"); adapter != nil {
		t.Error("Expected nil for unknown backend")
	}

	// Backend lookup is case insensitive.
	originalSonarr := NewSonarrAdapter
	defer func() { NewSonarrAdapter = originalSonarr }()

	called := false
	NewSonarrAdapter = func() StatusAdapter {
		called = true
		return nil
	}

	registry.CreateAdapter("SONARR")
	if !called {
		t.Error("Adapter creator not called for uppercase backend name")
	}

	called = false
	registry.CreateAdapter("sonarr")
	if !called {
		t.Error("Adapter creator not called for lowercase backend name")
	}
}
