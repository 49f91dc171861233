// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package jellyfin mirrors the Emby adapter; Jellyfin kept Emby's session
// API but prefers token auth via header over the api_key query parameter.
package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/core"
)

type JellyfinService struct {
	core.ServiceCore
}

type jellyfinSession struct {
	ID             string `json:"Id"`
	UserName       string `json:"UserName"`
	NowPlayingItem *struct {
		Name string `json:"Name"`
	} `json:"NowPlayingItem"`
}

func init() {
	models.NewJellyfinAdapter = NewJellyfinService
}

func NewJellyfinService() models.StatusAdapter {
	service := &JellyfinService{}
	service.Backend = "jellyfin"
	service.DisplayName = "Jellyfin"
	service.DefaultURL = "http://localhost:8096"
	return service
}

func (s *JellyfinService) FetchStatus(ctx context.Context, baseURL string, creds models.Credentials) models.ServiceStatus {
	status := models.ServiceStatus{Name: s.DisplayName}

	endpoint := strings.TrimRight(baseURL, "/") + "/Sessions"
	headers := map[string]string{"X-Emby-Token": creds.APIKey}

	resp, err := s.Do(ctx, http.MethodGet, endpoint, nil, headers)
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

	var sessions []jellyfinSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		status.Active = true
		status.Message = (&core.ParseError{Err: err}).Error()
		return status
	}

	var names []string
	for _, session := range sessions {
		if session.NowPlayingItem == nil {
			continue
		}
		user := session.UserName
		if user == "" {
			user = "Unknown"
		}
		names = append(names, fmt.Sprintf("%s (%s)", session.NowPlayingItem.Name, user))
	}
	if names == nil {
		names = []string{}
	}

	status.Active = true
	status.Message = fmt.Sprintf("%d active session(s)", len(names))
	status.Extras = map[string]interface{}{
		"active_sessions": len(names),
		"sessions":        names,
	}
	return status
}

var _ models.StatusAdapter = (*JellyfinService)(nil)
