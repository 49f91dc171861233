// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package models

// ServiceStatus is the uniform status record every backend adapter produces.
// It is built fresh on each poll and never persisted.
type ServiceStatus struct {
	Name    string                 `json:"name"`
	Active  bool                   `json:"active"`
	Message string                 `json:"message"`
	Version string                 `json:"version,omitempty"`
	Extras  map[string]interface{} `json:"extras,omitempty"`
}

// IndexerRecord describes one configured indexer from a Torznab listing.
type IndexerRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Configured bool   `json:"configured"`
}

// TorrentSummary is the subset of torrent fields the dashboard reads.
// Status 4 is Transmission's "downloading" state.
type TorrentSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Status       int64   `json:"status"`
	PercentDone  float64 `json:"percentDone"`
	RateDownload int64   `json:"rateDownload"`
}

// Credentials carries whichever secret a backend expects. The arr services
// and Jackett use APIKey, Plex puts its token in APIKey, Transmission uses
// Username/Password.
type Credentials struct {
	APIKey   string
	Username string
	Password string
}

// DashboardConfig is the connection configuration for every backend. An
// empty URL means the backend is not configured and is skipped entirely.
// JSON tags match the settings keys in the database.
type DashboardConfig struct {
	SonarrURL        string `json:"sonarr_url"`
	SonarrKey        string `json:"sonarr_key"`
	RadarrURL        string `json:"radarr_url"`
	RadarrKey        string `json:"radarr_key"`
	JackettURL       string `json:"jackett_url"`
	JackettKey       string `json:"jackett_key"`
	TransmissionURL  string `json:"transmission_url"`
	TransmissionUser string `json:"transmission_user"`
	TransmissionPass string `json:"transmission_pass"`
	PlexURL          string `json:"plex_url"`
	PlexToken        string `json:"plex_token"`
	JellyfinURL      string `json:"jellyfin_url"`
	JellyfinKey      string `json:"jellyfin_key"`
	EmbyURL          string `json:"emby_url"`
	EmbyKey          string `json:"emby_key"`
}

// Backend returns the URL and credentials for the named backend. The bool
// reports whether the name is known at all; an unknown backend returns false.
func (c DashboardConfig) Backend(name string) (string, Credentials, bool) {
	switch name {
	case "sonarr":
		return c.SonarrURL, Credentials{APIKey: c.SonarrKey}, true
	case "radarr":
		return c.RadarrURL, Credentials{APIKey: c.RadarrKey}, true
	case "jackett":
		return c.JackettURL, Credentials{APIKey: c.JackettKey}, true
	case "transmission":
		return c.TransmissionURL, Credentials{Username: c.TransmissionUser, Password: c.TransmissionPass}, true
	case "plex":
		return c.PlexURL, Credentials{APIKey: c.PlexToken}, true
	case "jellyfin":
		return c.JellyfinURL, Credentials{APIKey: c.JellyfinKey}, true
	case "emby":
		return c.EmbyURL, Credentials{APIKey: c.EmbyKey}, true
	}
	return "", Credentials{}, false
}

// AuditLog is one row of the audit trail written on mutating operations.
type AuditLog struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// User is the single built-in dashboard account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
