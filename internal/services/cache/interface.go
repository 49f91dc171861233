// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"time"
)

// Store defines the caching operations.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string, value interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var _ Store = (*RedisStore)(nil)
var _ Store = (*MemoryStore)(nil)
