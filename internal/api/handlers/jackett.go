// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aragorn2909/media-dashboard/internal/services/jackett"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

type JackettHandler struct {
	settings *settings.Store
	service  *jackett.JackettService
}

func NewJackettHandler(store *settings.Store) *JackettHandler {
	return &JackettHandler{
		settings: store,
		service:  jackett.NewJackettService().(*jackett.JackettService),
	}
}

// GetIndexers lists the configured indexers from the Torznab listing.
func (h *JackettHandler) GetIndexers(c *gin.Context) {
	url, creds, _ := h.settings.Backend("jackett")
	if url == "" {
		notConfigured(c, "jackett")
		return
	}

	indexers, err := h.service.ListIndexers(c.Request.Context(), url, creds.APIKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, indexers)
}
