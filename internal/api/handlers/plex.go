// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aragorn2909/media-dashboard/internal/services/plex"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

const defaultRecentlyAddedLimit = 12

type PlexHandler struct {
	settings *settings.Store
	service  *plex.PlexService
}

func NewPlexHandler(store *settings.Store) *PlexHandler {
	return &PlexHandler{
		settings: store,
		service:  plex.NewPlexService().(*plex.PlexService),
	}
}

func (h *PlexHandler) backend(c *gin.Context) (string, string, bool) {
	url, creds, _ := h.settings.Backend("plex")
	if url == "" {
		notConfigured(c, "plex")
		return "", "", false
	}
	return url, creds.APIKey, true
}

// GetServerInfo returns the server's machine identifier and friendly name.
func (h *PlexHandler) GetServerInfo(c *gin.Context) {
	url, token, ok := h.backend(c)
	if !ok {
		return
	}

	info, err := h.service.GetServerInfo(c.Request.Context(), url, token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetLibraries lists the library sections with item counts.
func (h *PlexHandler) GetLibraries(c *gin.Context) {
	url, token, ok := h.backend(c)
	if !ok {
		return
	}

	libraries, err := h.service.GetLibraries(c.Request.Context(), url, token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, libraries)
}

// GetRecentlyAdded returns the newest library items.
func (h *PlexHandler) GetRecentlyAdded(c *gin.Context) {
	url, token, ok := h.backend(c)
	if !ok {
		return
	}

	limit := defaultRecentlyAddedLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.service.GetRecentlyAdded(c.Request.Context(), url, token, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
