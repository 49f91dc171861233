// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package sonarr

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

type SonarrService struct {
	core.ServiceCore
}

type systemStatusResponse struct {
	Version string `json:"version"`
}

type wantedResponse struct {
	TotalRecords int64 `json:"totalRecords"`
}

func init() {
	models.NewSonarrAdapter = NewSonarrService
}

func NewSonarrService() models.StatusAdapter {
	service := &SonarrService{}
	service.Backend = "sonarr"
	service.DisplayName = "Sonarr"
	service.DefaultURL = "http://localhost:8989"
	return service
}

func (s *SonarrService) apiURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/api/v3" + path
}

func (s *SonarrService) headers(apiKey string) map[string]string {
	return map[string]string{
		"X-Api-Key":    apiKey,
		"Content-Type": "application/json",
	}
}

// getJSON fetches an endpoint and returns its body, mapping failures onto
// the shared error taxonomy.
func (s *SonarrService) getJSON(ctx context.Context, requestURL, apiKey string) (json.RawMessage, error) {
	return s.doJSON(ctx, http.MethodGet, requestURL, apiKey, nil)
}

func (s *SonarrService) doJSON(ctx context.Context, method, requestURL, apiKey string, body []byte) (json.RawMessage, error) {
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
		return nil, &core.ParseError{Err: fmt.Errorf("sonarr returned non-JSON body")}
	}

	return json.RawMessage(payload), nil
}

// FetchStatus probes system/status. Missing-episode and series counts are
// secondary calls that degrade to zero on any failure.
func (s *SonarrService) FetchStatus(ctx context.Context, baseURL string, creds models.Credentials) models.ServiceStatus {
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
		// The server answered, it just wasn't Sonarr's shape.
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
			log.Debug().Err(err).Msg("Failed to cache Sonarr version")
		}
	}

	return status
}

func (s *SonarrService) fetchExtras(ctx context.Context, baseURL, apiKey string) map[string]interface{} {
	var missing int64
	wantedURL := s.apiURL(baseURL, "/wanted/missing") + "?pageSize=1&sortKey=airDateUtc&sortDirection=descending"
	if raw, err := s.getJSON(ctx, wantedURL, apiKey); err == nil {
		var wanted wantedResponse
		if json.Unmarshal(raw, &wanted) == nil {
			missing = wanted.TotalRecords
		}
	}

	var totalSeries int
	if raw, err := s.getJSON(ctx, s.apiURL(baseURL, "/series"), apiKey); err == nil {
		var series []json.RawMessage
		if json.Unmarshal(raw, &series) == nil {
			totalSeries = len(series)
		}
	}

	return map[string]interface{}{
		"missing_episodes": missing,
		"total_series":     totalSeries,
	}
}

// ListSeries returns the raw series collection.
func (s *SonarrService) ListSeries(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/series"), apiKey)
}

// SearchSeries looks up series by search term.
func (s *SonarrService) SearchSeries(ctx context.Context, baseURL, apiKey, term string) (json.RawMessage, error) {
	lookupURL := s.apiURL(baseURL, "/series/lookup") + "?term=" + url.QueryEscape(term)
	return s.getJSON(ctx, lookupURL, apiKey)
}

// AddSeries forwards an add-series payload unchanged.
func (s *SonarrService) AddSeries(ctx context.Context, baseURL, apiKey string, body json.RawMessage) (json.RawMessage, error) {
	return s.doJSON(ctx, http.MethodPost, s.apiURL(baseURL, "/series"), apiKey, body)
}

// DeleteSeries removes a series, optionally deleting files on disk.
func (s *SonarrService) DeleteSeries(ctx context.Context, baseURL, apiKey string, id int64, deleteFiles bool) error {
	deleteURL := fmt.Sprintf("%s/%d?deleteFiles=%t", s.apiURL(baseURL, "/series"), id, deleteFiles)
	_, err := s.doJSON(ctx, http.MethodDelete, deleteURL, apiKey, nil)
	return err
}

// GetCalendar returns upcoming episodes between two dates (YYYY-MM-DD).
func (s *SonarrService) GetCalendar(ctx context.Context, baseURL, apiKey, start, end string) (json.RawMessage, error) {
	calendarURL := fmt.Sprintf("%s?start=%s&end=%s&includeSeries=true", s.apiURL(baseURL, "/calendar"), start, end)
	return s.getJSON(ctx, calendarURL, apiKey)
}

// GetDiskSpace returns disk usage per root folder mount.
func (s *SonarrService) GetDiskSpace(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/diskspace"), apiKey)
}

// GetRootFolders returns the configured root folders.
func (s *SonarrService) GetRootFolders(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/rootfolder"), apiKey)
}

// GetQualityProfiles returns the configured quality profiles.
func (s *SonarrService) GetQualityProfiles(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/qualityprofile"), apiKey)
}

// GetHostConfig proxies Sonarr's host configuration for the settings page.
func (s *SonarrService) GetHostConfig(ctx context.Context, baseURL, apiKey string) (json.RawMessage, error) {
	return s.getJSON(ctx, s.apiURL(baseURL, "/config/host"), apiKey)
}

// UpdateHostConfig pushes an edited host configuration back.
func (s *SonarrService) UpdateHostConfig(ctx context.Context, baseURL, apiKey string, config json.RawMessage) error {
	_, err := s.doJSON(ctx, http.MethodPut, s.apiURL(baseURL, "/config/host"), apiKey, config)
	return err
}

var _ models.StatusAdapter = (*SonarrService)(nil)
