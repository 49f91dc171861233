// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// MemoryStore implements Store using in-memory storage.
type MemoryStore struct {
	local  *localCache
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory cache instance.
func NewMemoryStore() Store {
	ctx, cancel := context.WithCancel(context.Background())

	store := &MemoryStore{
		local: &localCache{
			items: make(map[string]*localCacheItem),
		},
		ctx:    ctx,
		cancel: cancel,
	}

	store.wg.Add(1)
	go func() {
		defer store.wg.Done()
		store.cleanupLoop()
	}()

	return store
}

// Get retrieves a value from cache.
func (s *MemoryStore) Get(ctx context.Context, key string, value interface{}) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	s.local.Lock()
	defer s.local.Unlock()

	item, exists := s.local.items[key]
	if exists && time.Now().Before(item.expiration) {
		return json.Unmarshal(item.value, value)
	}
	if exists {
		delete(s.local.items, key)
	}

	return ErrKeyNotFound
}

// Set stores a value in cache.
func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	if expiration == 0 {
		expiration = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to marshal value for cache")
		return err
	}

	s.local.Lock()
	s.local.items[key] = &localCacheItem{
		value:      data,
		expiration: time.Now().Add(expiration),
	}
	s.local.Unlock()

	return nil
}

// Delete removes a value from cache.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	s.local.Lock()
	delete(s.local.items, key)
	s.local.Unlock()

	return nil
}

// Close stops the cleanup goroutine and clears the cache.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.local.Lock()
	s.local.items = make(map[string]*localCacheItem)
	s.local.Unlock()

	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.local.Lock()
			for key, item := range s.local.items {
				if now.After(item.expiration) {
					delete(s.local.items, key)
				}
			}
			s.local.Unlock()
		case <-s.ctx.Done():
			return
		}
	}
}
