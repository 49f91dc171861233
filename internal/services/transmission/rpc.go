// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package transmission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/core"
)

// sessionHeader carries Transmission's CSRF token. A 409 response announces
// the token; the request is then retried once with the token attached.
const sessionHeader = "X-Transmission-Session-Id"

// torrentGetFields is the fixed field set requested for torrent listings.
var torrentGetFields = []string{"id", "name", "status", "percentDone", "rateDownload"}

// rpcRequest is the envelope for every RPC call.
type rpcRequest struct {
	Method    string      `json:"method"`
	Arguments interface{} `json:"arguments,omitempty"`
}

// rpcResponse is the envelope Transmission answers with.
type rpcResponse struct {
	Result    string          `json:"result"`
	Arguments json.RawMessage `json:"arguments"`
}

// Client speaks Transmission's JSON-RPC dialect over a single POST endpoint.
type Client struct {
	core.ServiceCore
}

// NewClient returns an RPC client for the daemon at the given base URL.
func NewClient() *Client {
	c := &Client{}
	c.Backend = "transmission"
	c.DisplayName = "Transmission"
	c.DefaultURL = "http://localhost:9091"
	return c
}

var errInvalidJSON = errors.New("response body is not valid JSON")

func rpcEndpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/transmission/rpc"
}

// Call posts an RPC request, performing the session-id handshake when the
// daemon demands one:
//
//  1. POST the body; basic auth only if a username is configured.
//  2. On 409, re-POST the identical body once with the session id from the
//     response header (absent header means empty token). The second
//     response is final either way; there is no third attempt.
//  3. On success, return the parsed body.
//  4. Any other status is a protocol error.
func (c *Client) Call(ctx context.Context, baseURL string, creds models.Credentials, method string, args interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{Method: method, Arguments: args})
	if err != nil {
		return nil, err
	}

	endpoint := rpcEndpoint(baseURL)

	resp, err := c.post(ctx, endpoint, creds, body, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusConflict {
		// An absent header still produces a retry, with an empty token.
		token := resp.Header.Get(sessionHeader)
		resp.Body.Close()

		log.Debug().Str("method", method).Msg("Transmission requested session handshake")

		resp, err = c.post(ctx, endpoint, creds, body, &token)
		if err != nil {
			return nil, err
		}
		return c.parse(resp)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.parse(resp)
	}

	resp.Body.Close()
	return nil, &core.ProtocolError{Op: "transmission " + method, StatusCode: resp.StatusCode}
}

func (c *Client) post(ctx context.Context, endpoint string, creds models.Credentials, body []byte, sessionID *string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "media-dashboard/1.0")
	if sessionID != nil {
		req.Header.Set(sessionHeader, *sessionID)
	}
	// An empty username means no auth header at all, not empty-credential auth.
	if creds.Username != "" {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	timeout := core.DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	resp, err := core.HTTPClient(timeout).Do(req)
	if err != nil {
		return nil, &core.TransportError{URL: endpoint, Err: err}
	}
	if resp == nil {
		return nil, core.ErrNilResponse
	}

	return resp, nil
}

func (c *Client) parse(resp *http.Response) (json.RawMessage, error) {
	body, err := c.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &core.ParseError{Err: errInvalidJSON}
	}

	return json.RawMessage(body), nil
}

// SessionGet fetches the daemon's session settings.
func (c *Client) SessionGet(ctx context.Context, baseURL string, creds models.Credentials) (json.RawMessage, error) {
	return c.Call(ctx, baseURL, creds, "session-get", nil)
}

// SessionSet updates the daemon's session settings.
func (c *Client) SessionSet(ctx context.Context, baseURL string, creds models.Credentials, settings interface{}) (json.RawMessage, error) {
	return c.Call(ctx, baseURL, creds, "session-set", settings)
}

// TorrentGet lists torrents with the fixed dashboard field set.
func (c *Client) TorrentGet(ctx context.Context, baseURL string, creds models.Credentials) (json.RawMessage, error) {
	return c.Call(ctx, baseURL, creds, "torrent-get", map[string]interface{}{
		"fields": torrentGetFields,
	})
}

// TorrentAdd adds a torrent by magnet link or URL.
func (c *Client) TorrentAdd(ctx context.Context, baseURL string, creds models.Credentials, filename string) (json.RawMessage, error) {
	return c.Call(ctx, baseURL, creds, "torrent-add", map[string]interface{}{
		"filename": filename,
	})
}

// TorrentStart resumes a torrent.
func (c *Client) TorrentStart(ctx context.Context, baseURL string, creds models.Credentials, id int64) (json.RawMessage, error) {
	return c.Call(ctx, baseURL, creds, "torrent-start", map[string]interface{}{
		"ids": []int64{id},
	})
}

// TorrentStop pauses a torrent.
func (c *Client) TorrentStop(ctx context.Context, baseURL string, creds models.Credentials, id int64) (json.RawMessage, error) {
	return c.Call(ctx, baseURL, creds, "torrent-stop", map[string]interface{}{
		"ids": []int64{id},
	})
}

// TorrentRemove removes a torrent, optionally deleting its data on disk.
func (c *Client) TorrentRemove(ctx context.Context, baseURL string, creds models.Credentials, id int64, deleteData bool) (json.RawMessage, error) {
	return c.Call(ctx, baseURL, creds, "torrent-remove", map[string]interface{}{
		"ids":               []int64{id},
		"delete-local-data": deleteData,
	})
}
