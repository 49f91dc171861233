// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package transmission

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

// statusDownloading is the only torrent status code the dashboard interprets.
const statusDownloading = 4

// maxDownloadingNames caps the formatted name list in the status extras.
const maxDownloadingNames = 5

type torrentGetArguments struct {
	Torrents []models.TorrentSummary `json:"torrents"`
}

func init() {
	models.NewTransmissionAdapter = func() models.StatusAdapter {
		return NewClient()
	}
}

// FetchStatus probes the RPC endpoint with a bare session-get. A 409 counts
// as alive: the daemon answered its own handshake. Torrent extras are
// best-effort and never fail the status.
func (c *Client) FetchStatus(ctx context.Context, url string, creds models.Credentials) models.ServiceStatus {
	status := models.ServiceStatus{Name: c.DisplayName}

	body, err := json.Marshal(rpcRequest{Method: "session-get"})
	if err != nil {
		status.Message = err.Error()
		return status
	}

	resp, err := c.post(ctx, rpcEndpoint(url), creds, body, nil)
	if err != nil {
		status.Message = err.Error()
		return status
	}
	resp.Body.Close()

	ok := (resp.StatusCode >= 200 && resp.StatusCode < 300) || resp.StatusCode == http.StatusConflict
	if !ok {
		status.Message = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return status
	}

	status.Active = true
	status.Message = "Running"
	status.Extras = c.fetchExtras(ctx, url, creds)
	return status
}

// fetchExtras summarizes the torrent list. Any failure degrades to an empty
// extras map rather than touching the status verdict.
func (c *Client) fetchExtras(ctx context.Context, url string, creds models.Credentials) map[string]interface{} {
	raw, err := c.TorrentGet(ctx, url, creds)
	if err != nil {
		log.Debug().Err(err).Msg("Transmission torrent summary unavailable")
		return map[string]interface{}{}
	}

	var envelope rpcResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return map[string]interface{}{}
	}

	var args torrentGetArguments
	if err := json.Unmarshal(envelope.Arguments, &args); err != nil {
		return map[string]interface{}{}
	}

	downloading := 0
	var names []string
	for _, t := range args.Torrents {
		if t.Status != statusDownloading {
			continue
		}
		downloading++
		if len(names) < maxDownloadingNames {
			percent := int64(math.Round(t.PercentDone * 100))
			names = append(names, fmt.Sprintf("%s (%d%%)", t.Name, percent))
		}
	}
	if names == nil {
		names = []string{}
	}

	return map[string]interface{}{
		"total_torrents":    len(args.Torrents),
		"downloading":       downloading,
		"downloading_names": names,
	}
}

var _ models.StatusAdapter = (*Client)(nil)
