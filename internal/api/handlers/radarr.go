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
	"github.com/aragorn2909/media-dashboard/internal/services/radarr"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

type RadarrHandler struct {
	settings *settings.Store
	db       *database.DB
	service  *radarr.RadarrService
}

func NewRadarrHandler(store *settings.Store, db *database.DB) *RadarrHandler {
	return &RadarrHandler{
		settings: store,
		db:       db,
		service:  radarr.NewRadarrService().(*radarr.RadarrService),
	}
}

func (h *RadarrHandler) backend(c *gin.Context) (string, string, bool) {
	url, creds, _ := h.settings.Backend("radarr")
	if url == "" {
		notConfigured(c, "radarr")
		return "", "", false
	}
	return url, creds.APIKey, true
}

// GetMovies lists every movie in the library.
func (h *RadarrHandler) GetMovies(c *gin.Context) {
	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	movies, err := h.service.ListMovies(c.Request.Context(), url, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", movies)
}

// SearchMovies looks a term up against Radarr's remote lookup endpoint.
func (h *RadarrHandler) SearchMovies(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	results, err := h.service.SearchMovies(c.Request.Context(), url, apiKey, term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", results)
}

// AddMovie forwards the add payload to Radarr verbatim and audits it.
func (h *RadarrHandler) AddMovie(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie payload"})
		return
	}

	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	created, err := h.service.AddMovie(c.Request.Context(), url, apiKey, body)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "add_movie", seriesTitle(body))

	c.Data(http.StatusCreated, "application/json", created)
}

// DeleteMovie removes a movie, optionally including its files.
func (h *RadarrHandler) DeleteMovie(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}
	deleteFiles := c.Query("deleteFiles") == "true"

	url, apiKey, ok := h.backend(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMovie(c.Request.Context(), url, apiKey, id, deleteFiles); err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "delete_movie", c.Param("id"))

	c.Status(http.StatusNoContent)
}

// GetCalendar returns upcoming releases between start and end.
func (h *RadarrHandler) GetCalendar(c *gin.Context) {
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
func (h *RadarrHandler) GetRootFolders(c *gin.Context) {
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
func (h *RadarrHandler) GetQualityProfiles(c *gin.Context) {
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

func (h *RadarrHandler) audit(c *gin.Context, action, details string) {
	if err := h.db.LogAudit(c.Request.Context(), "radarr", action, details); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to write audit entry")
	}
}
