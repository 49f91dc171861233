// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package aggregator

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

// BackendOrder is the dashboard's display order. The status list always
// comes back in this order no matter which backend answers first.
var BackendOrder = []string{
	"plex",
	"sonarr",
	"radarr",
	"jackett",
	"transmission",
	"jellyfin",
	"emby",
}

// backendTimeout caps each individual poll so the aggregate request is
// bounded by the slowest backend, not the sum of them.
const backendTimeout = 10 * time.Second

type Aggregator struct {
	registry models.AdapterCreator
}

func New(registry models.AdapterCreator) *Aggregator {
	return &Aggregator{registry: registry}
}

// PollAll fans out to every configured backend concurrently and returns one
// ServiceStatus per backend with a non-empty URL, in display order. A
// backend failing in any way only affects its own entry.
func (a *Aggregator) PollAll(ctx context.Context, cfg models.DashboardConfig) []models.ServiceStatus {
	type slot struct {
		backend string
		url     string
		creds   models.Credentials
	}

	var slots []slot
	for _, backend := range BackendOrder {
		url, creds, ok := cfg.Backend(backend)
		if !ok || url == "" {
			continue
		}
		slots = append(slots, slot{backend: backend, url: url, creds: creds})
	}

	results := make([]models.ServiceStatus, len(slots))

	g, ctx := errgroup.WithContext(ctx)
	for i, sl := range slots {
		i, sl := i, sl
		g.Go(func() error {
			adapter := a.registry.CreateAdapter(sl.backend)
			if adapter == nil {
				log.Error().Str("backend", sl.backend).Msg("No adapter registered for backend")
				results[i] = models.ServiceStatus{
					Name:    sl.backend,
					Active:  false,
					Message: "no adapter registered",
				}
				return nil
			}

			pollCtx, cancel := context.WithTimeout(ctx, backendTimeout)
			defer cancel()

			results[i] = adapter.FetchStatus(pollCtx, sl.url, sl.creds)
			return nil
		})
	}

	// Adapters never return errors; the group only coordinates completion.
	_ = g.Wait()

	return results
}
