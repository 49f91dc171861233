// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

type stubAdapter struct {
	name  string
	delay time.Duration
}

func (a *stubAdapter) FetchStatus(ctx context.Context, url string, creds models.Credentials) models.ServiceStatus {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return models.ServiceStatus{Name: a.name, Message: ctx.Err().Error()}
		}
	}
	return models.ServiceStatus{Name: a.name, Active: true, Message: "Running"}
}

type stubRegistry struct {
	delays map[string]time.Duration
}

func (r *stubRegistry) CreateAdapter(backend string) models.StatusAdapter {
	delay := time.Duration(0)
	if r.delays != nil {
		delay = r.delays[backend]
	}
	return &stubAdapter{name: backend, delay: delay}
}

func TestPollAllSkipsUnconfigured(t *testing.T) {
	agg := New(&stubRegistry{})

	cfg := models.DashboardConfig{
		SonarrURL: "http://localhost:8989",
		PlexURL:   "http://localhost:32400",
	}

	results := agg.PollAll(context.Background(), cfg)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Active {
			t.Errorf("Expected %s to be active, got message %q", result.Name, result.Message)
		}
	}
}

func TestPollAllOrder(t *testing.T) {
	// The slowest backend comes first in display order; its result must
	// still land in slot 0.
	agg := New(&stubRegistry{
		delays: map[string]time.Duration{"plex": 30 * time.Millisecond},
	})

	cfg := models.DashboardConfig{
		PlexURL:         "http://localhost:32400",
		SonarrURL:       "http://localhost:8989",
		RadarrURL:       "http://localhost:7878",
		TransmissionURL: "http://localhost:9091",
	}

	results := agg.PollAll(context.Background(), cfg)

	want := []string{"plex", "sonarr", "radarr", "transmission"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, name := range want {
		if results[i].Name != name {
			t.Errorf("Result %d: expected %s, got %s", i, name, results[i].Name)
		}
	}
}

func TestPollAllEmptyConfig(t *testing.T) {
	agg := New(&stubRegistry{})

	results := agg.PollAll(context.Background(), models.DashboardConfig{})

	if len(results) != 0 {
		t.Fatalf("Expected no results for empty config, got %d", len(results))
	}
}
