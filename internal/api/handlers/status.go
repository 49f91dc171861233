// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aragorn2909/media-dashboard/internal/services/aggregator"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

type StatusHandler struct {
	settings   *settings.Store
	aggregator *aggregator.Aggregator
}

func NewStatusHandler(store *settings.Store, agg *aggregator.Aggregator) *StatusHandler {
	return &StatusHandler{
		settings:   store,
		aggregator: agg,
	}
}

// GetStatus polls every configured backend and returns one row each, in
// display order.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	config := h.settings.Snapshot()
	results := h.aggregator.PollAll(c.Request.Context(), config)
	c.JSON(http.StatusOK, results)
}
