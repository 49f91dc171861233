// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package emby

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

type EmbyService struct {
	core.ServiceCore
}

type embySession struct {
	ID             string `json:"Id"`
	UserName       string `json:"UserName"`
	NowPlayingItem *struct {
		Name string `json:"Name"`
	} `json:"NowPlayingItem"`
}

func init() {
	models.NewEmbyAdapter = NewEmbyService
}

func NewEmbyService() models.StatusAdapter {
	service := &EmbyService{}
	service.Backend = "emby"
	service.DisplayName = "Emby"
	service.DefaultURL = "http://localhost:8096"
	return service
}

// FetchStatus lists sessions and reports the ones actively playing. Idle
// sessions (no NowPlayingItem) are not counted.
func (s *EmbyService) FetchStatus(ctx context.Context, baseURL string, creds models.Credentials) models.ServiceStatus {
	status := models.ServiceStatus{Name: s.DisplayName}

	endpoint := fmt.Sprintf("%s/Sessions?api_key=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(creds.APIKey))
	resp, err := s.Do(ctx, http.MethodGet, endpoint, nil, nil)
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

	var sessions []embySession
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

var _ models.StatusAdapter = (*EmbyService)(nil)
