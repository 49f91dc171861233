// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package transmission

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/core"
)

func TestCallSessionHandshake(t *testing.T) {
	var bodies []string
	var sessionHeaders []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		sessionHeaders = append(sessionHeaders, r.Header.Get(sessionHeader))

		if len(bodies) == 1 {
			w.Header().Set(sessionHeader, "abc123")
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.Write([]byte(`{"result":"success","arguments":{}}`))
	}))
	defer server.Close()

	client := NewClient()
	raw, err := client.Call(context.Background(), server.URL, models.Credentials{}, "session-get", nil)
	require.NoError(t, err)

	// Exactly one retry, identical body, token attached.
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.Empty(t, sessionHeaders[0])
	assert.Equal(t, "abc123", sessionHeaders[1])

	var envelope rpcResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "success", envelope.Result)
}

func TestCallNoHandshakeOnSuccess(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"result":"success"}`))
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Call(context.Background(), server.URL, models.Credentials{}, "session-get", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, requests, "no retry may happen on a success response")
}

func TestCallRetryOutcomeIsFinal(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Always demand a session: the retry gets a second 409 whose body
		// is returned as-is, with no third attempt.
		w.Header().Set(sessionHeader, "abc123")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"result":"conflict"}`))
	}))
	defer server.Close()

	client := NewClient()
	raw, err := client.Call(context.Background(), server.URL, models.Credentials{}, "torrent-get", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.JSONEq(t, `{"result":"conflict"}`, string(raw))
}

func TestCallMissingSessionHeader(t *testing.T) {
	var retryHeader []string
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			// 409 without the session header still triggers one retry
			// carrying an empty token.
			w.WriteHeader(http.StatusConflict)
			return
		}
		values, present := r.Header[sessionHeader]
		if present {
			retryHeader = values
		}
		w.Write([]byte(`{"result":"success"}`))
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Call(context.Background(), server.URL, models.Credentials{}, "session-get", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Equal(t, []string{""}, retryHeader)
}

func TestCallProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Call(context.Background(), server.URL, models.Credentials{}, "session-get", nil)

	var protoErr *core.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, http.StatusInternalServerError, protoErr.StatusCode)
}

func TestCallTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := NewClient()
	_, err := client.Call(context.Background(), server.URL, models.Credentials{}, "session-get", nil)

	var transportErr *core.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestCallBasicAuth(t *testing.T) {
	var user, pass string
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, hasAuth = r.BasicAuth()
		w.Write([]byte(`{"result":"success"}`))
	}))
	defer server.Close()

	client := NewClient()

	_, err := client.Call(context.Background(), server.URL, models.Credentials{Username: "admin", Password: "hunter2"}, "session-get", nil)
	require.NoError(t, err)
	assert.True(t, hasAuth)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "hunter2", pass)

	// Empty username: no Authorization header at all.
	hasAuth = false
	_, err = client.Call(context.Background(), server.URL, models.Credentials{Password: "ignored"}, "session-get", nil)
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestFetchStatusDownloadingSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))

		switch req.Method {
		case "session-get":
			w.Write([]byte(`{"result":"success"}`))
		case "torrent-get":
			w.Write([]byte(`{"result":"success","arguments":{"torrents":[
				{"id":1,"name":"ubuntu","status":4,"percentDone":0.5,"rateDownload":1000},
				{"id":2,"name":"debian","status":4,"percentDone":0.25,"rateDownload":500},
				{"id":3,"name":"seeding","status":6,"percentDone":1.0},
				{"id":4,"name":"paused","status":0,"percentDone":0.1},
				{"id":5,"name":"checking","status":2,"percentDone":0.9}
			]}}`))
		default:
			t.Errorf("unexpected method %q", req.Method)
		}
	}))
	defer server.Close()

	client := NewClient()
	status := client.FetchStatus(context.Background(), server.URL, models.Credentials{})

	require.True(t, status.Active)
	assert.Equal(t, "Running", status.Message)
	require.NotNil(t, status.Extras)

	assert.Equal(t, 5, status.Extras["total_torrents"])
	assert.Equal(t, 2, status.Extras["downloading"])
	assert.Equal(t, []string{"ubuntu (50%)", "debian (25%)"}, status.Extras["downloading_names"])
}

func TestFetchStatusTreats409AsAlive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(sessionHeader, "tok")
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient()
	status := client.FetchStatus(context.Background(), server.URL, models.Credentials{})
	assert.True(t, status.Active)
}

func TestFetchStatusHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient()
	status := client.FetchStatus(context.Background(), server.URL, models.Credentials{})

	assert.False(t, status.Active)
	assert.Contains(t, status.Message, "502")
	assert.Nil(t, status.Extras)
}

func TestFetchStatusUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient()
	status := client.FetchStatus(context.Background(), server.URL, models.Credentials{})

	assert.False(t, status.Active)
	assert.NotEmpty(t, status.Message)
	assert.Nil(t, status.Extras)
}
