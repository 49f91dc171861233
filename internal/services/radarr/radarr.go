// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package radarr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/core"
)

type RadarrService struct {
	core.ServiceCore
}

type systemStatusResponse struct {
	Version string `json:"version"`
}

type wantedResponse struct {
	TotalRecords int64 `json:"totalRecords"`
}

func init() {
	models.NewRadarrAdapter = NewRadarrService
}

func NewRadarrService() models.StatusAdapter {
	service := &RadarrService{}
	service.Backend = "radarr"
	service.DisplayName = "Radarr"
	service.DefaultURL = "http://localhost:7878"
	return service
}

func (s *RadarrService) apiURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/api/v3" + path
}

func (s *RadarrService) headers(apiKey string) map[string]string {
	return map[string]string{
		"X-Api-Key":    apiKey,
		"Content-Type": "application/json",
	}
}

func (s *RadarrService) getJSON(ctx context.Context, requestURL, apiKey string) (json.RawMessage, error) {
	return s.doJSON(ctx, http.MethodGet, requestURL, apiKey, nil)
}

func (s *RadarrService) doJSON(ctx context.Context, method, requestURL, apiKey string, body []byte) (json.RawMessage, error) {
	resp, err := s.Do(ctx, method, requestURL, body, s.headers(apiKey))
	if err != nil {
		return nil, err
	}

	payload, err := s.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.HTTPError{StatusCode: resp.StatusCode}
	}

	if len(payload) > 0 && !json.Valid(payload) {
		return nil, &core.ParseError{Err: fmt.Errorf("radarr returned non-JSON body")}
	}

	return json.RawMessage(payload), nil
}

// FetchStatus probes system/status; missing-movie and library counts are
// best-effort secondary calls.
func (s *RadarrService) FetchStatus(ctx context.Context, baseURL string, creds models.Credentials) models.ServiceStatus {
	status := models.ServiceStatus{Name: s.DisplayName}

	resp, err := s.Do(ctx, http.MethodGet, s.apiURL(baseURL, "/system/status"), nil, s.headers(creds.APIKey))
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

	var systemStatus systemStatusResponse
	if err := json.Unmarshal(body, &systemStatus); err != nil {
		status.Active = true
		status.Message = (&core.ParseError{Err: err}).Error()
		return status
	}

	status.Active = true
	status.Message = "Running"
	status.Version = systemStatus.Version
	status.Extras = s.fetchExtras(ctx, baseURL, creds.APIKey)

	if status.Version != "" {
		if err := s.CacheVersion(baseURL, status.Version, time.Hour); err != nil {
			log.Debug().Err(err).Msg("Failed to cache Radarr version")
		}
	}

	return status
}

func (s *RadarrService) fetchExtras(ctx context.Context, baseURL, apiKey string) map[string]interface{} {
	var missing int64
	wantedURL := s.apiURL(baseURL, "/wanted/missing") + "?pageSize=1"
	if raw, err := s.getJSON(ctx, wantedURL, apiKey); err == nil {
		var wanted wantedResponse
		if json.Unmarshal(raw, &wanted) == nil {
			missing = wanted.TotalRecords
		}
	}

	var totalMovies int
	if raw, err := s.getJSON(ctx, s.apiURL(baseURL, "/movie"), apiKey); err == nil {
		var movies []json.RawMessage
		if json.Unmarshal(raw, &movies) == nil {
			totalMovies = len(movies)
		}
	}

	return map[string]interface{}{
		"missing_movies": missing,
		"total_movies":   totalMovies,
	}
}

// ListMovies returns the raw movie collection.
func (s *RadarrService) ListMovies(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/movie"), apiKey)
}

// SearchMovies looks up movies by search term.
func (s *RadarrService) SearchMovies(ctx context.Context, baseURL, apiKey, term string) (json.RawMessage, error) {
	lookupURL := s.apiURL(baseURL, "/movie/lookup") + "?term=" + url.QueryEscape(term)
	return s.getJSON(ctx, lookupURL, apiKey)
}

// AddMovie forwards an add-movie payload unchanged.
func (s *RadarrService) AddMovie(ctx context.Context, baseURL, apiKey string, body json.RawMessage) (json.RawMessage, error) {
	return s.doJSON(ctx, http.MethodPost, s.apiURL(baseURL, "/movie"), apiKey, body)
}

// DeleteMovie removes a movie, optionally deleting files on disk.
func (s *RadarrService) DeleteMovie(ctx context.Context, baseURL, apiKey string, id int64, deleteFiles bool) error {
	deleteURL := fmt.Sprintf("%s/%d?deleteFiles=%t", s.apiURL(baseURL, "/movie"), id, deleteFiles)
	_, err := s.doJSON(ctx, http.MethodDelete, deleteURL, apiKey, nil)
	return err
}

// GetCalendar returns upcoming releases between two dates (YYYY-MM-DD).
func (s *RadarrService) GetCalendar(ctx context.Context, baseURL, apiKey, start, end string) (json.RawMessage, error) {
	calendarURL := fmt.Sprintf("%s?start=%s&end=%s", s.apiURL(baseURL, "/calendar"), start, end)
	return s.getJSON(ctx, calendarURL, apiKey)
}

// GetDiskSpace returns disk usage per root folder mount.
func (s *RadarrService) GetDiskSpace(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/diskspace"), apiKey)
}

// GetRootFolders returns the configured root folders.
func (s *RadarrService) GetRootFolders(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/rootfolder"), apiKey)
}

// GetQualityProfiles returns the configured quality profiles.
func (s *RadarrService) GetQualityProfiles(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/qualityprofile"), apiKey)
}

// GetHostConfig proxies Radarr's host configuration for the settings page.
func (s *RadarrService) GetHostConfig(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/config/host"), apiKey)
}

// UpdateHostConfig pushes an edited host configuration back.
func (s *RadarrService) UpdateHostConfig(ctx context.Context, baseURL, apiKey string, config json.RawMessage) error {
	_, err := s.doJSON(ctx, http.MethodPut, s.apiURL(baseURL, "/config/host"), apiKey, config)
	return err
}

var _ models.StatusAdapter = (*RadarrService)(nil)
