// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/database"
	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/transmission"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

type TransmissionHandler struct {
	settings *settings.Store
	db       *database.DB
	client   *transmission.Client
}

func NewTransmissionHandler(store *settings.Store, db *database.DB) *TransmissionHandler {
	return &TransmissionHandler{
		settings: store,
		db:       db,
		client:   transmission.NewClient(),
	}
}

func (h *TransmissionHandler) backend(c *gin.Context) (string, models.Credentials, bool) {
	url, creds, _ := h.settings.Backend("transmission")
	if url == "" {
		notConfigured(c, "transmission")
		return "", models.Credentials{}, false
	}
	return url, creds, true
}

// GetTorrents lists all torrents with the dashboard's field set.
func (h *TransmissionHandler) GetTorrents(c *gin.Context) {
	url, creds, ok := h.backend(c)
	if !ok {
		return
	}

	result, err := h.client.TorrentGet(c.Request.Context(), url, creds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

type addTorrentRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// AddTorrent submits a magnet link or torrent URL.
func (h *TransmissionHandler) AddTorrent(c *gin.Context) {
	var req addTorrentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename is required"})
		return
	}

	url, creds, ok := h.backend(c)
	if !ok {
		return
	}

	result, err := h.client.TorrentAdd(c.Request.Context(), url, creds, req.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "add_torrent", req.Filename)

	c.Data(http.StatusCreated, "application/json", result)
}

// StartTorrent resumes a torrent by id.
func (h *TransmissionHandler) StartTorrent(c *gin.Context) {
	h.torrentAction(c, "start", h.client.TorrentStart)
}

// StopTorrent pauses a torrent by id.
func (h *TransmissionHandler) StopTorrent(c *gin.Context) {
	h.torrentAction(c, "stop", h.client.TorrentStop)
}

// RemoveTorrent deletes a torrent, optionally with its data.
func (h *TransmissionHandler) RemoveTorrent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid torrent id"})
		return
	}
	deleteData := c.Query("deleteData") == "true"

	url, creds, ok := h.backend(c)
	if !ok {
		return
	}

	if _, err := h.client.TorrentRemove(c.Request.Context(), url, creds, id, deleteData); err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "remove_torrent", c.Param("id"))

	c.Status(http.StatusNoContent)
}

type torrentOp func(ctx context.Context, baseURL string, creds models.Credentials, id int64) (json.RawMessage, error)

func (h *TransmissionHandler) torrentAction(c *gin.Context, action string, op torrentOp) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid torrent id"})
		return
	}

	url, creds, ok := h.backend(c)
	if !ok {
		return
	}

	if _, err := op(c.Request.Context(), url, creds, id); err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, action+"_torrent", c.Param("id"))

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TransmissionHandler) audit(c *gin.Context, action, details string) {
	if err := h.db.LogAudit(c.Request.Context(), "transmission", action, details); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to write audit entry")
	}
}
