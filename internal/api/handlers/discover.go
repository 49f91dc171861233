// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aragorn2909/media-dashboard/internal/services/discovery"
)

type DiscoverHandler struct{}

func NewDiscoverHandler() *DiscoverHandler {
	return &DiscoverHandler{}
}

// Discover runs Docker and Kubernetes label discovery and returns the
// backends found. Secrets are not echoed back.
func (h *DiscoverHandler) Discover(c *gin.Context) {
	manager, err := discovery.NewManager()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	defer manager.Close()

	backends, err := manager.DiscoverAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	type discovered struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}

	results := make([]discovered, 0, len(backends))
	for _, backend := range backends {
		results = append(results, discovered{Type: backend.Type, URL: backend.URL})
	}

	c.JSON(http.StatusOK, results)
}
