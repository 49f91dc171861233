// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aragorn2909/media-dashboard/internal/services/radarr"
	"github.com/aragorn2909/media-dashboard/internal/services/sonarr"
	"github.com/aragorn2909/media-dashboard/internal/services/transmission"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

// SettingsHandler proxies remote backend configuration: host config for the
// arr services, session settings for Transmission.
type SettingsHandler struct {
	settings     *settings.Store
	sonarr       *sonarr.SonarrService
	radarr       *radarr.RadarrService
	transmission *transmission.Client
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{
		settings:     store,
		sonarr:       sonarr.NewSonarrService().(*sonarr.SonarrService),
		radarr:       radarr.NewRadarrService().(*radarr.RadarrService),
		transmission: transmission.NewClient(),
	}
}

// GetSettings fetches the remote configuration of one backend.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	service := c.Param("service")

	url, creds, known := h.settings.Backend(service)
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown service " + service})
		return
	}
	if url == "" {
		notConfigured(c, service)
		return
	}

	ctx := c.Request.Context()

	var (
		result json.RawMessage
		err    error
	)

	switch service {
	case "sonarr":
		result, err = h.sonarr.GetHostConfig(ctx, url, creds.APIKey)
	case "radarr":
		result, err = h.radarr.GetHostConfig(ctx, url, creds.APIKey)
	case "transmission":
		result, err = h.transmission.SessionGet(ctx, url, creds)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "no remote settings for " + service})
		return
	}

	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

// UpdateSettings pushes configuration back to one backend.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	service := c.Param("service")

	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	url, creds, known := h.settings.Backend(service)
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown service " + service})
		return
	}
	if url == "" {
		notConfigured(c, service)
		return
	}

	ctx := c.Request.Context()

	var err error
	switch service {
	case "sonarr":
		err = h.sonarr.UpdateHostConfig(ctx, url, creds.APIKey, body)
	case "radarr":
		err = h.radarr.UpdateHostConfig(ctx, url, creds.APIKey, body)
	case "transmission":
		var settings interface{}
		if jsonErr := json.Unmarshal(body, &settings); jsonErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
			return
		}
		_, err = h.transmission.SessionSet(ctx, url, creds, settings)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "no remote settings for " + service})
		return
	}

	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
