// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/core"
)

type PlexService struct {
	core.ServiceCore
}

type sessionsResponse struct {
	MediaContainer struct {
		Size     int           `json:"size"`
		Metadata []plexSession `json:"Metadata"`
	} `json:"MediaContainer"`
}

type plexSession struct {
	Title string `json:"title"`
	User  *struct {
		Title string `json:"title"`
	} `json:"User"`
	Player *struct {
		State string `json:"state"`
	} `json:"Player"`
}

type serverInfoResponse struct {
	MediaContainer struct {
		MachineIdentifier string `json:"machineIdentifier"`
		FriendlyName      string `json:"friendlyName"`
	} `json:"MediaContainer"`
}

type librariesResponse struct {
	MediaContainer struct {
		Directory []struct {
			Key   string `json:"key"`
			Title string `json:"title"`
			Type  string `json:"type"`
		} `json:"Directory"`
	} `json:"MediaContainer"`
}

type sectionCountResponse struct {
	MediaContainer struct {
		TotalSize int64 `json:"totalSize"`
	} `json:"MediaContainer"`
}

type recentlyAddedResponse struct {
	MediaContainer struct {
		Metadata []recentMetadata `json:"Metadata"`
	} `json:"MediaContainer"`
}

type recentMetadata struct {
	Title            string `json:"title"`
	Type             string `json:"type"`
	Year             int    `json:"year"`
	Thumb            string `json:"thumb"`
	GrandparentThumb string `json:"grandparentThumb"`
	GrandparentTitle string `json:"grandparentTitle"`
	AddedAt          int64  `json:"addedAt"`
}

// Library is one Plex library section with its item count.
type Library struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"lib_type"`
	Count int64  `json:"count"`
}

// RecentItem is one recently added library entry.
type RecentItem struct {
	Title            string `json:"title"`
	MediaType        string `json:"media_type"`
	Year             int    `json:"year,omitempty"`
	Thumb            string `json:"thumb,omitempty"`
	GrandparentTitle string `json:"grandparent_title,omitempty"`
	AddedAt          int64  `json:"added_at,omitempty"`
}

func init() {
	models.NewPlexAdapter = NewPlexService
}

func NewPlexService() models.StatusAdapter {
	service := &PlexService{}
	service.Backend = "plex"
	service.DisplayName = "Plex"
	service.DefaultURL = "http://localhost:32400"
	return service
}

func (s *PlexService) plexHeaders(token string) map[string]string {
	return map[string]string{
		"Accept":                   "application/json",
		"X-Plex-Token":             token,
		"X-Plex-Client-Identifier": "com.media-dashboard.app",
		"X-Plex-Product":           "media-dashboard",
	}
}

func (s *PlexService) getJSON(ctx context.Context, requestURL, token string, out interface{}) error {
	resp, err := s.Do(ctx, http.MethodGet, requestURL, nil, s.plexHeaders(token))
	if err != nil {
		return err
	}

	body, err := s.ReadBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &core.HTTPError{StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &core.ParseError{Err: err}
	}

	return nil
}

// FetchStatus reads the active playback sessions. Unlike the arr services,
// the session list is the primary probe here, so a parse failure still means
// the server is up.
func (s *PlexService) FetchStatus(ctx context.Context, baseURL string, creds models.Credentials) models.ServiceStatus {
	status := models.ServiceStatus{Name: s.DisplayName}

	endpoint := strings.TrimRight(baseURL, "/") + "/status/sessions"
	resp, err := s.Do(ctx, http.MethodGet, endpoint, nil, s.plexHeaders(creds.APIKey))
	if err != nil {
		status.Message = err.Error()
		return status
	}

	body, err := s.ReadBody(resp)
	if err != nil {
		status.Message = err.Error()
		return status
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status.Message = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return status
	}

	var sessions sessionsResponse
	if err := json.Unmarshal(body, &sessions); err != nil {
		status.Active = true
		status.Message = (&core.ParseError{Err: err}).Error()
		return status
	}

	names := make([]string, 0, len(sessions.MediaContainer.Metadata))
	for _, session := range sessions.MediaContainer.Metadata {
		user := "Unknown"
		if session.User != nil && session.User.Title != "" {
			user = session.User.Title
		}
		title := session.Title
		if title == "" {
			title = "Unknown"
		}
		names = append(names, fmt.Sprintf("%s (%s)", title, user))
	}

	status.Active = true
	status.Message = fmt.Sprintf("%d active session(s)", sessions.MediaContainer.Size)
	status.Extras = map[string]interface{}{
		"active_sessions": sessions.MediaContainer.Size,
		"sessions":        names,
	}
	return status
}

// GetServerInfo returns the server's machine identifier and friendly name.
func (s *PlexService) GetServerInfo(ctx context.Context, baseURL, token string) (map[string]interface{}, error) {
	var info serverInfoResponse
	if err := s.getJSON(ctx, strings.TrimRight(baseURL, "/")+"/", token, &info); err != nil {
		return nil, err
	}

	name := info.MediaContainer.FriendlyName
	if name == "" {
		name = "Plex"
	}

	return map[string]interface{}{
		"machine_id":  info.MediaContainer.MachineIdentifier,
		"server_name": name,
	}, nil
}

// GetLibraries lists library sections. The sections endpoint does not carry
// item counts, so each section costs one extra request; a failed count
// degrades to zero for that section only.
func (s *PlexService) GetLibraries(ctx context.Context, baseURL, token string) ([]Library, error) {
	base := strings.TrimRight(baseURL, "/")

	var sections librariesResponse
	if err := s.getJSON(ctx, base+"/library/sections", token, &sections); err != nil {
		return nil, err
	}

	libraries := make([]Library, 0, len(sections.MediaContainer.Directory))
	for _, dir := range sections.MediaContainer.Directory {
		lib := Library{Key: dir.Key, Title: dir.Title, Type: dir.Type}

		countURL := fmt.Sprintf("%s/library/sections/%s/all?X-Plex-Container-Start=0&X-Plex-Container-Size=0",
			base, url.PathEscape(dir.Key))
		var count sectionCountResponse
		if err := s.getJSON(ctx, countURL, token, &count); err == nil {
			lib.Count = count.MediaContainer.TotalSize
		}

		libraries = append(libraries, lib)
	}

	return libraries, nil
}

// GetRecentlyAdded returns the newest library items, with thumb paths
// expanded into token-carrying URLs the frontend can load directly.
func (s *PlexService) GetRecentlyAdded(ctx context.Context, baseURL, token string, limit int) ([]RecentItem, error) {
	base := strings.TrimRight(baseURL, "/")

	endpoint := fmt.Sprintf("%s/library/recentlyAdded?X-Plex-Container-Start=0&X-Plex-Container-Size=%d", base, limit)
	var recent recentlyAddedResponse
	if err := s.getJSON(ctx, endpoint, token, &recent); err != nil {
		return nil, err
	}

	items := make([]RecentItem, 0, len(recent.MediaContainer.Metadata))
	for _, m := range recent.MediaContainer.Metadata {
		item := RecentItem{
			Title:            m.Title,
			MediaType:        m.Type,
			Year:             m.Year,
			GrandparentTitle: m.GrandparentTitle,
			AddedAt:          m.AddedAt,
		}
		if item.Title == "" {
			item.Title = "Unknown"
		}
		if item.MediaType == "" {
			item.MediaType = "unknown"
		}

		thumb := m.Thumb
		if thumb == "" {
			thumb = m.GrandparentThumb
		}
		if thumb != "" {
			// The thumb path has no query string of its own.
			item.Thumb = fmt.Sprintf("%s%s?X-Plex-Token=%s", base, thumb, url.QueryEscape(token))
		}

		items = append(items, item)
	}

	return items, nil
}

var _ models.StatusAdapter = (*PlexService)(nil)
