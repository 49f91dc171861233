// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package jackett

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/core"
)

const indexerFeed = `<indexers>
<indexer id="nyaa" configured="true" type="public"><title>Nyaa</title></indexer>
<indexer id="rarbg" configured="false" type="public"><title>RARBG</title></indexer>
<indexer id="iptorrents" configured="true" type="private"><title>IPTorrents</title></indexer>
</indexers>`

func newTestService() *JackettService {
	return NewJackettService().(*JackettService)
}

func TestFetchStatusSuccess(t *testing.T) {
	var apiKeys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKeys = append(apiKeys, r.URL.Query().Get("apikey"))

		if strings.Contains(r.URL.Path, "torznab") {
			w.Write([]byte(indexerFeed))
			return
		}
		w.Write([]byte(`{"Results":[]}`))
	}))
	defer server.Close()

	service := newTestService()
	status := service.FetchStatus(context.Background(), server.URL, models.Credentials{APIKey: "secret"})

	require.True(t, status.Active)
	assert.Equal(t, "Jackett", status.Name)
	assert.Equal(t, "Running", status.Message)

	require.NotNil(t, status.Extras)
	assert.Equal(t, 2, status.Extras["total_indexers"])
	assert.Equal(t, 0, status.Extras["failed_count"])

	for _, key := range apiKeys {
		assert.Equal(t, "secret", key)
	}
}

func TestFetchStatusListingDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "torznab") {
			// Listing failure degrades the count, never the probe.
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"Results":[]}`))
	}))
	defer server.Close()

	service := newTestService()
	status := service.FetchStatus(context.Background(), server.URL, models.Credentials{})

	require.True(t, status.Active)
	assert.Equal(t, 0, status.Extras["total_indexers"])
}

func TestFetchStatusHTTPErrorExcerpt(t *testing.T) {
	long := strings.Repeat("x", 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(long))
	}))
	defer server.Close()

	service := newTestService()
	status := service.FetchStatus(context.Background(), server.URL, models.Credentials{})

	assert.False(t, status.Active)
	assert.Contains(t, status.Message, "403")
	// The body excerpt is bounded.
	assert.Contains(t, status.Message, strings.Repeat("x", bodyExcerptLen))
	assert.NotContains(t, status.Message, strings.Repeat("x", bodyExcerptLen+1))
}

func TestFetchStatusUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	service := newTestService()
	status := service.FetchStatus(context.Background(), server.URL, models.Credentials{})

	assert.False(t, status.Active)
	assert.NotEmpty(t, status.Message)
	assert.Nil(t, status.Extras)
}

func TestListIndexers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexerFeed))
	}))
	defer server.Close()

	service := newTestService()
	records, err := service.ListIndexers(context.Background(), server.URL, "key")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Nyaa", records[0].Name)
	assert.Equal(t, "public", records[0].Type)
	assert.Equal(t, "IPTorrents", records[1].Name)
	assert.Equal(t, "private", records[1].Type)
}

func TestListIndexersEmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<indexers></indexers>`))
	}))
	defer server.Close()

	service := newTestService()
	records, err := service.ListIndexers(context.Background(), server.URL, "key")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListIndexersErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	service := newTestService()
	_, err := service.ListIndexers(context.Background(), server.URL, "key")

	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}
