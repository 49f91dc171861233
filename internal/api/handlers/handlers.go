// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package handlers implements the dashboard's HTTP API. Each backend gets
// its own handler file; shared plumbing lives here.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/services/core"
)

// respondError maps backend errors onto HTTP responses. Anything that went
// wrong talking to a backend is a gateway problem from the dashboard's point
// of view.
func respondError(c *gin.Context, err error) {
	var (
		transportErr *core.TransportError
		httpErr      *core.HTTPError
		parseErr     *core.ParseError
		protocolErr  *core.ProtocolError
	)

	switch {
	case errors.Is(err, core.ErrNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": "backend is not configured"})
	case errors.As(err, &transportErr),
		errors.As(err, &httpErr),
		errors.As(err, &parseErr),
		errors.As(err, &protocolErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// notConfigured is the standard reply when a route needs a backend that has
// no URL set.
func notConfigured(c *gin.Context, backend string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": backend + " is not configured"})
}
