// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package settings keeps the live dashboard configuration in memory, backed
// by the database. Handlers read a snapshot per request so a concurrent save
// never tears a poll in half.
package settings

import (
	"context"
	"sync"

	"github.com/aragorn2909/media-dashboard/internal/database"
	"github.com/aragorn2909/media-dashboard/internal/models"
)

type Store struct {
	mu     sync.RWMutex
	config models.DashboardConfig
	db     *database.DB
}

// NewStore loads the persisted configuration and returns a store serving it.
func NewStore(ctx context.Context, db *database.DB) (*Store, error) {
	config, err := db.LoadDashboardConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &Store{
		config: *config,
		db:     db,
	}, nil
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() models.DashboardConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Replace persists the new configuration and swaps it in. The in-memory copy
// only changes if the database write succeeds.
func (s *Store) Replace(ctx context.Context, config models.DashboardConfig) error {
	if err := s.db.SaveDashboardConfig(ctx, &config); err != nil {
		return err
	}

	s.mu.Lock()
	s.config = config
	s.mu.Unlock()

	return nil
}

// Backend returns the URL and credentials for one backend from the current
// snapshot.
func (s *Store) Backend(name string) (string, models.Credentials, bool) {
	config := s.Snapshot()
	return config.Backend(name)
}
