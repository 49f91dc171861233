// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package jackett

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/core"
	"github.com/aragorn2909/media-dashboard/internal/services/torznab"
)

// bodyExcerptLen bounds how much of an error body ends up in the status
// message.
const bodyExcerptLen = 80

type JackettService struct {
	core.ServiceCore
}

func init() {
	models.NewJackettAdapter = NewJackettService
}

func NewJackettService() models.StatusAdapter {
	service := &JackettService{}
	service.Backend = "jackett"
	service.DisplayName = "Jackett"
	service.DefaultURL = "http://localhost:9117"
	return service
}

// The REST indexers endpoint needs browser cookies; machine-to-machine
// health goes through the aggregate search endpoint instead.
func (s *JackettService) searchEndpoint(baseURL, apiKey string) string {
	return fmt.Sprintf("%s/api/v2.0/indexers/all/results?apikey=%s&t=search&q=",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(apiKey))
}

// The Torznab listing accepts the apikey without cookies and returns XML.
func (s *JackettService) torznabEndpoint(baseURL, apiKey string) string {
	return fmt.Sprintf("%s/api/v2.0/indexers/all/results/torznab/api?apikey=%s&t=indexers",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(apiKey))
}

// FetchStatus probes the search endpoint; the Torznab listing only enriches
// the result, so a listing failure degrades the indexer count to zero
// instead of marking Jackett inactive.
func (s *JackettService) FetchStatus(ctx context.Context, baseURL string, creds models.Credentials) models.ServiceStatus {
	status := models.ServiceStatus{Name: s.DisplayName}

	resp, err := s.Do(ctx, http.MethodGet, s.searchEndpoint(baseURL, creds.APIKey), nil, nil)
	if err != nil {
		status.Message = err.Error()
		return status
	}

	body, readErr := s.ReadBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := ""
		if readErr == nil {
			excerpt = core.BodyExcerpt(body, bodyExcerptLen)
		}
		status.Message = (&core.HTTPError{StatusCode: resp.StatusCode, Excerpt: excerpt}).Error()
		return status
	}

	status.Active = true
	status.Message = "Running"
	status.Extras = map[string]interface{}{
		"total_indexers":  s.countIndexers(ctx, baseURL, creds.APIKey),
		"failed_count":    0,
		"failed_indexers": []string{},
	}
	return status
}

func (s *JackettService) countIndexers(ctx context.Context, baseURL, apiKey string) int {
	feed, err := s.fetchTorznab(ctx, baseURL, apiKey)
	if err != nil {
		log.Debug().Err(err).Msg("Jackett indexer listing unavailable")
		return 0
	}
	return torznab.CountConfigured(feed)
}

// ListIndexers returns the configured indexers from the Torznab listing.
// Unlike the status path, errors here propagate to the caller.
func (s *JackettService) ListIndexers(ctx context.Context, baseURL, apiKey string) ([]models.IndexerRecord, error) {
	feed, err := s.fetchTorznab(ctx, baseURL, apiKey)
	if err != nil {
		return nil, err
	}

	records := torznab.ScanIndexers(feed)
	if records == nil {
		records = []models.IndexerRecord{}
	}
	return records, nil
}

func (s *JackettService) fetchTorznab(ctx context.Context, baseURL, apiKey string) (string, error) {
	resp, err := s.Do(ctx, http.MethodGet, s.torznabEndpoint(baseURL, apiKey), nil, nil)
	if err != nil {
		return "", err
	}

	body, err := s.ReadBody(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &core.HTTPError{StatusCode: resp.StatusCode}
	}

	return string(body), nil
}

var _ models.StatusAdapter = (*JackettService)(nil)
