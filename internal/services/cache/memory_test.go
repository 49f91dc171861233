// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("Basic Operations", func(t *testing.T) {
		key := "test_key"
		value := "test_value"
		err := store.Set(ctx, key, value, time.Minute)
		if err != nil {
			t.Errorf("Failed to set value: %v", err)
		}

		var result string
		err = store.Get(ctx, key, &result)
		if err != nil {
			t.Errorf("Failed to get value: %v", err)
		}
		if result != value {
			t.Errorf("Expected %v, got %v", value, result)
		}

		err = store.Delete(ctx, key)
		if err != nil {
			t.Errorf("Failed to delete value: %v", err)
		}

		err = store.Get(ctx, key, &result)
		if err != ErrKeyNotFound {
			t.Errorf("Expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		key := "expiring_key"
		value := "expiring_value"
		err := store.Set(ctx, key, value, 50*time.Millisecond)
		if err != nil {
			t.Errorf("Failed to set value: %v", err)
		}

		time.Sleep(100 * time.Millisecond)

		var result string
		err = store.Get(ctx, key, &result)
		if err != ErrKeyNotFound {
			t.Errorf("Expected ErrKeyNotFound for expired key, got %v", err)
		}
	})

	t.Run("Structured Values", func(t *testing.T) {
		type cached struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}

		key := "struct_key"
		value := cached{Name: "sonarr", Count: 3}
		if err := store.Set(ctx, key, value, time.Minute); err != nil {
			t.Errorf("Failed to set struct value: %v", err)
		}

		var result cached
		if err := store.Get(ctx, key, &result); err != nil {
			t.Errorf("Failed to get struct value: %v", err)
		}
		if result != value {
			t.Errorf("Expected %+v, got %+v", value, result)
		}
	})
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	ctx := context.Background()

	if err := store.Set(ctx, "key", "value", time.Minute); err != ErrClosed {
		t.Errorf("Expected ErrClosed on Set, got %v", err)
	}

	var result string
	if err := store.Get(ctx, "key", &result); err != ErrClosed {
		t.Errorf("Expected ErrClosed on Get, got %v", err)
	}

	if err := store.Close(); err != ErrClosed {
		t.Errorf("Expected ErrClosed on double close, got %v", err)
	}
}
