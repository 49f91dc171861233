// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/services/cache"
)

var (
	// Shared HTTP client pool, keyed by timeout
	httpClients sync.Map

	ErrNotConfigured = errors.New("backend is not configured")
	ErrNilResponse   = errors.New("received nil response from server")
)

// DefaultTimeout bounds every outbound backend call so a slow backend can
// never hang an aggregate status request.
const DefaultTimeout = 15 * time.Second

// ServiceCore carries the HTTP plumbing shared by every backend adapter.
type ServiceCore struct {
	Backend     string
	DisplayName string
	DefaultURL  string

	cache cache.Store
}

// HTTPClient returns a pooled client with the given timeout.
func HTTPClient(timeout time.Duration) *http.Client {
	if client, ok := httpClients.Load(timeout); ok {
		return client.(*http.Client)
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: timeout,
	}

	httpClients.Store(timeout, client)
	return client
}

func (s *ServiceCore) initCache() error {
	if s.cache != nil {
		return nil
	}

	store, err := cache.InitCache()
	if err != nil {
		// InitCache falls back to a memory store on error, keep it.
		s.cache = store
		log.Warn().Err(err).Msg("Failed to initialize preferred cache, using memory cache")
		return err
	}

	s.cache = store
	return nil
}

// Do executes a request against a backend. Transport failures come back as
// *TransportError; any HTTP status is returned to the caller for mapping.
func (s *ServiceCore) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	if url == "" {
		return nil, ErrNotConfigured
	}

	timeout := DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("Failed to create request")
		return nil, err
	}

	req.Header.Set("User-Agent", "media-dashboard/1.0")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := HTTPClient(timeout).Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("Request failed")
		return nil, &TransportError{URL: url, Err: err}
	}
	if resp == nil {
		return nil, ErrNilResponse
	}

	return resp, nil
}

// ReadBody drains and closes the response body.
func (s *ServiceCore) ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, ErrNilResponse
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return nil, err
	}

	return body, nil
}

// GetVersionFromCache retrieves a previously cached backend version.
func (s *ServiceCore) GetVersionFromCache(baseURL string) string {
	if err := s.initCache(); err != nil {
		return ""
	}

	var version string
	if err := s.cache.Get(context.Background(), "version:"+baseURL, &version); err != nil {
		// Cache miss is normal operation.
		return ""
	}

	return version
}

// CacheVersion stores a backend version with the given TTL.
func (s *ServiceCore) CacheVersion(baseURL, version string, ttl time.Duration) error {
	if err := s.initCache(); err != nil {
		return err
	}

	if err := s.cache.Set(context.Background(), "version:"+baseURL, version, ttl); err != nil {
		log.Warn().Err(err).Str("url", baseURL).Msg("Failed to cache version")
		return err
	}

	return nil
}
