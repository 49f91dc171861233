// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build integration
// +build integration

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

func setupSQLiteDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize SQLite test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSettingsRoundTrip(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()

	value, err := db.GetSetting(ctx, "sonarr_url")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for missing key, got %q", value)
	}

	if err := db.SetSetting(ctx, "sonarr_url", "http://localhost:8989"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	// Upsert overwrites
	if err := db.SetSetting(ctx, "sonarr_url", "http://sonarr:8989"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}

	value, err = db.GetSetting(ctx, "sonarr_url")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "http://sonarr:8989" {
		t.Errorf("Expected overwritten value, got %q", value)
	}
}

func TestDashboardConfigRoundTrip(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()

	config := &models.DashboardConfig{
		SonarrURL:        "http://localhost:8989",
		SonarrKey:        "abc123",
		TransmissionURL:  "http://localhost:9091",
		TransmissionUser: "admin",
		TransmissionPass: "secret",
	}

	if err := db.SaveDashboardConfig(ctx, config); err != nil {
		t.Fatalf("SaveDashboardConfig failed: %v", err)
	}

	loaded, err := db.LoadDashboardConfig(ctx)
	if err != nil {
		t.Fatalf("LoadDashboardConfig failed: %v", err)
	}

	if *loaded != *config {
		t.Errorf("Loaded config does not match saved config:\ngot  %+v\nwant %+v", *loaded, *config)
	}
}

func TestAuditLogs(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()

	if err := db.LogAudit(ctx, "sonarr", "add_series", "Breaking Bad"); err != nil {
		t.Fatalf("LogAudit failed: %v", err)
	}
	if err := db.LogAudit(ctx, "config", "update", ""); err != nil {
		t.Fatalf("LogAudit failed: %v", err)
	}

	logs, err := db.RecentAuditLogs(ctx, 10)
	if err != nil {
		t.Fatalf("RecentAuditLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("Expected 2 audit rows, got %d", len(logs))
	}
	// Most recent first
	if logs[0].Action != "update" {
		t.Errorf("Expected newest entry first, got action %q", logs[0].Action)
	}
	if logs[1].Service != "sonarr" || logs[1].Details != "Breaking Bad" {
		t.Errorf("Unexpected oldest entry: %+v", logs[1])
	}
}

func TestUserManagement(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()

	hasUsers, err := db.HasUsers(ctx)
	if err != nil {
		t.Fatalf("HasUsers failed: %v", err)
	}
	if hasUsers {
		t.Error("Expected no users in fresh database")
	}

	user := &models.User{Username: "admin", PasswordHash: "hash"}
	if err := db.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected CreateUser to populate the ID")
	}

	found, err := db.FindUser(ctx, "admin")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if found == nil || found.Username != "admin" {
		t.Fatalf("Expected to find user admin, got %+v", found)
	}

	missing, err := db.FindUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing user, got %+v", missing)
	}

	if err := db.UpdateUserPassword(ctx, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword failed: %v", err)
	}

	found, err = db.FindUser(ctx, "admin")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if found.PasswordHash != "newhash" {
		t.Errorf("Expected updated password hash, got %q", found.PasswordHash)
	}

	if err := db.LogLogin(ctx, "admin", true, "127.0.0.1"); err != nil {
		t.Fatalf("LogLogin failed: %v", err)
	}
}
