// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/database"
	"github.com/aragorn2909/media-dashboard/internal/services/sonarr"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

type SonarrHandler struct {
	settings *settings.Store
	db       *database.DB
	service  *sonarr.SonarrService
}

func NewSonarrHandler(store *settings.Store, db *database.DB) *SonarrHandler {
	return &SonarrHandler{
		settings: store,
		db:       db,
		service:  sonarr.NewSonarrService().(*sonarr.SonarrService),
	}
}

func (h *SonarrHandler) backend(c *gin.Context) (string, string, bool) {
	url, creds, _ := h.settings.Backend("sonarr")
	if url == "" {
		notConfigured(c, "sonarr")
		return "", "", false
	}
	return url, creds.APIKey, true
}

// GetSeries lists every series in the library.
func (h *SonarrHandler) GetSeries(c *gin.Context) {
	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	series, err := h.service.ListSeries(c.Request.Context(), url, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", series)
}

// SearchSeries looks a term up against Sonarr's remote lookup endpoint.
func (h *SonarrHandler) SearchSeries(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	results, err := h.service.SearchSeries(c.Request.Context(), url, apiKey, term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", results)
}

// AddSeries forwards the add payload to Sonarr verbatim and audits it.
func (h *SonarrHandler) AddSeries(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid series payload"})
		return
	}

	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	created, err := h.service.AddSeries(c.Request.Context(), url, apiKey, body)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "add_series", seriesTitle(body))

	c.Data(http.StatusCreated, "application/json", created)
}

// DeleteSeries removes a series, optionally including its files.
func (h *SonarrHandler) DeleteSeries(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid series id"})
		return
	}
	deleteFiles := c.Query("deleteFiles") == "true"

	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSeries(c.Request.Context(), url, apiKey, id, deleteFiles); err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "delete_series", c.Param("id"))

	c.Status(http.StatusNoContent)
}

// GetCalendar returns upcoming episodes between start and end.
func (h *SonarrHandler) GetCalendar(c *gin.Context) {
	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	calendar, err := h.service.GetCalendar(c.Request.Context(), url, apiKey, c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", calendar)
}

// GetRootFolders lists the configured root folders.
func (h *SonarrHandler) GetRootFolders(c *gin.Context) {
	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	folders, err := h.service.GetRootFolders(c.Request.Context(), url, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", folders)
}

// GetQualityProfiles lists the configured quality profiles.
func (h *SonarrHandler) GetQualityProfiles(c *gin.Context) {
	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	profiles, err := h.service.GetQualityProfiles(c.Request.Context(), url, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", profiles)
}

func (h *SonarrHandler) audit(c *gin.Context, action, details string) {
	if err := h.db.LogAudit(c.Request.Context(), "sonarr", action, details); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to write audit entry")
	}
}

// seriesTitle pulls the title out of an add payload for the audit trail.
func seriesTitle(body json.RawMessage) string {
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Title
}
