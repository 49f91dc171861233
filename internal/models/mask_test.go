// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleConfig() DashboardConfig {
	return DashboardConfig{
		SonarrURL:        "http://sonarr:8989",
		SonarrKey:        "sonarr-secret",
		RadarrURL:        "http://radarr:7878",
		RadarrKey:        "radarr-secret",
		JackettURL:       "http://jackett:9117",
		JackettKey:       "jackett-secret",
		TransmissionURL:  "http://transmission:9091",
		TransmissionUser: "admin",
		TransmissionPass: "tr-secret",
		PlexURL:          "http://plex:32400",
		PlexToken:        "plex-token",
	}
}

func TestMask(t *testing.T) {
	masked := Mask(sampleConfig())

	assert.Equal(t, SecretMask, masked.SonarrKey)
	assert.Equal(t, SecretMask, masked.RadarrKey)
	assert.Equal(t, SecretMask, masked.JackettKey)
	assert.Equal(t, SecretMask, masked.TransmissionPass)
	assert.Equal(t, SecretMask, masked.PlexToken)

	// URLs and the transmission username pass through untouched.
	assert.Equal(t, "http://sonarr:8989", masked.SonarrURL)
	assert.Equal(t, "admin", masked.TransmissionUser)

	// Unconfigured secrets stay empty, not masked.
	assert.Empty(t, masked.JellyfinKey)
	assert.Empty(t, masked.EmbyKey)
}

func TestMaskIdempotent(t *testing.T) {
	once := Mask(sampleConfig())
	twice := Mask(once)
	assert.Equal(t, once, twice)
}

func TestMergeRoundTrip(t *testing.T) {
	stored := sampleConfig()

	// An unchanged form submission echoes the masked config back.
	merged := Merge(stored, Mask(stored))
	assert.Equal(t, stored, merged)
}

func TestMergeReplacesSecret(t *testing.T) {
	stored := sampleConfig()
	incoming := Mask(stored)
	incoming.SonarrKey = "new-sonarr-secret"

	merged := Merge(stored, incoming)
	assert.Equal(t, "new-sonarr-secret", merged.SonarrKey)
	assert.Equal(t, stored.RadarrKey, merged.RadarrKey)
}

func TestMergeClearsSecret(t *testing.T) {
	stored := sampleConfig()
	incoming := Mask(stored)
	incoming.PlexToken = ""

	// An explicit empty value clears the secret; it is not "unchanged".
	merged := Merge(stored, incoming)
	assert.Empty(t, merged.PlexToken)
}

func TestMergeTakesURLsFromIncoming(t *testing.T) {
	stored := sampleConfig()
	incoming := Mask(stored)
	incoming.SonarrURL = "http://sonarr.local:8989"

	merged := Merge(stored, incoming)
	assert.Equal(t, "http://sonarr.local:8989", merged.SonarrURL)
	assert.Equal(t, stored.SonarrKey, merged.SonarrKey)
}

func TestBackendLookup(t *testing.T) {
	cfg := sampleConfig()

	url, creds, ok := cfg.Backend("transmission")
	assert.True(t, ok)
	assert.Equal(t, "http://transmission:9091", url)
	assert.Equal(t, "admin", creds.Username)
	assert.Equal(t, "tr-secret", creds.Password)

	_, _, ok = cfg.Backend("overseerr")
	assert.False(t, ok)
}
