// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/database"
	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

// auditLimit caps how many audit rows the API returns.
const auditLimit = 100

type ConfigHandler struct {
	settings *settings.Store
	db       *database.DB
}

func NewConfigHandler(store *settings.Store, db *database.DB) *ConfigHandler {
	return &ConfigHandler{
		settings: store,
		db:       db,
	}
}

// GetConfig returns the dashboard configuration with every stored secret
// masked.
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	config := h.settings.Snapshot()
	c.JSON(http.StatusOK, models.Mask(config))
}

// UpdateConfig merges the incoming configuration against the stored one and
// persists the result. Secrets equal to the mask keep their stored value.
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var incoming models.DashboardConfig
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid configuration payload"})
		return
	}

	stored := h.settings.Snapshot()
	merged := models.Merge(stored, incoming)

	if err := h.settings.Replace(c.Request.Context(), merged); err != nil {
		respondError(c, err)
		return
	}

	if err := h.db.LogAudit(c.Request.Context(), "config", "update", ""); err != nil {
		log.Warn().Err(err).Msg("Failed to write audit entry")
	}

	c.JSON(http.StatusOK, models.Mask(merged))
}

// GetAuditLogs returns the most recent audit entries.
func (h *ConfigHandler) GetAuditLogs(c *gin.Context) {
	logs, err := h.db.RecentAuditLogs(c.Request.Context(), auditLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
