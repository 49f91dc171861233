// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aragorn2909/media-dashboard/internal/services/radarr"
	"github.com/aragorn2909/media-dashboard/internal/services/sonarr"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

// calendarWindow is how far ahead the combined calendar looks.
const calendarWindow = 7 * 24 * time.Hour

// LibraryHandler serves the combined sonarr+radarr endpoints: search,
// calendar and stats. Each backend contributes its section independently; a
// failing backend reports its error in place of data.
type LibraryHandler struct {
	settings *settings.Store
	sonarr   *sonarr.SonarrService
	radarr   *radarr.RadarrService
}

func NewLibraryHandler(store *settings.Store) *LibraryHandler {
	return &LibraryHandler{
		settings: store,
		sonarr:   sonarr.NewSonarrService().(*sonarr.SonarrService),
		radarr:   radarr.NewRadarrService().(*radarr.RadarrService),
	}
}

type section struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

func makeSection(data json.RawMessage, err error) section {
	if err != nil {
		return section{Error: err.Error()}
	}
	return section{Data: data}
}

// Search looks the term up in both libraries' remote search.
func (h *LibraryHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	ctx := c.Request.Context()
	response := gin.H{}

	if url, creds, _ := h.settings.Backend("sonarr"); url != "" {
		results, err := h.sonarr.SearchSeries(ctx, url, creds.APIKey, term)
		response["series"] = makeSection(results, err)
	}
	if url, creds, _ := h.settings.Backend("radarr"); url != "" {
		results, err := h.radarr.SearchMovies(ctx, url, creds.APIKey, term)
		response["movies"] = makeSection(results, err)
	}

	if len(response) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no search backends configured"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Calendar returns upcoming episodes and releases for the next week.
func (h *LibraryHandler) Calendar(c *gin.Context) {
	now := time.Now()
	start := now.Format("2006-01-02")
	end := now.Add(calendarWindow).Format("2006-01-02")

	ctx := c.Request.Context()
	response := gin.H{"start": start, "end": end}

	if url, creds, _ := h.settings.Backend("sonarr"); url != "" {
		calendar, err := h.sonarr.GetCalendar(ctx, url, creds.APIKey, start, end)
		response["episodes"] = makeSection(calendar, err)
	}
	if url, creds, _ := h.settings.Backend("radarr"); url != "" {
		calendar, err := h.radarr.GetCalendar(ctx, url, creds.APIKey, start, end)
		response["movies"] = makeSection(calendar, err)
	}

	c.JSON(http.StatusOK, response)
}

// Stats reports disk space from both libraries.
func (h *LibraryHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	response := gin.H{}

	if url, creds, _ := h.settings.Backend("sonarr"); url != "" {
		space, err := h.sonarr.GetDiskSpace(ctx, url, creds.APIKey)
		response["sonarr_diskspace"] = makeSection(space, err)
	}
	if url, creds, _ := h.settings.Backend("radarr"); url != "" {
		space, err := h.radarr.GetDiskSpace(ctx, url, creds.APIKey)
		response["radarr_diskspace"] = makeSection(space, err)
	}

	c.JSON(http.StatusOK, response)
}
