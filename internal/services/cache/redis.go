// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

var (
	ErrKeyNotFound = errors.New("cache: key not found")
	ErrClosed      = errors.New("cache: store is closed")
)

const (
	PrefixVersion = "version:"
	PrefixStatus  = "status:"

	DefaultTimeout = 30 * time.Second
	RetryAttempts  = 2
	RetryDelay     = 50 * time.Millisecond

	// Cache durations
	DefaultTTL = 15 * time.Minute
	VersionTTL = 1 * time.Hour
	StatusTTL  = 30 * time.Second

	CleanupInterval = 1 * time.Minute
)

// RedisStore is a Redis-backed Store with a local in-memory layer in front
// to cut down on round trips for hot keys.
type RedisStore struct {
	client *redis.Client
	local  *localCache
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

type localCache struct {
	sync.RWMutex
	items map[string]*localCacheItem
}

type localCacheItem struct {
	value      []byte
	expiration time.Time
}

// NewRedisStore connects to Redis at addr and returns a Store backed by it.
func NewRedisStore(addr string) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		MinIdleConns:    2,
		MaxRetries:      RetryAttempts,
		MinRetryBackoff: RetryDelay,
		MaxRetryBackoff: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	storeCtx, storeCancel := context.WithCancel(context.Background())
	store := &RedisStore{
		client: client,
		local: &localCache{
			items: make(map[string]*localCacheItem),
		},
		ctx:    storeCtx,
		cancel: storeCancel,
	}

	store.wg.Add(1)
	go func() {
		defer store.wg.Done()
		store.cleanupLoop()
	}()

	return store, nil
}

func ttlForKey(key string) time.Duration {
	switch {
	case strings.HasPrefix(key, PrefixVersion):
		return VersionTTL
	case strings.HasPrefix(key, PrefixStatus):
		return StatusTTL
	default:
		return DefaultTTL
	}
}

// Get retrieves a value, checking the local layer first.
func (s *RedisStore) Get(ctx context.Context, key string, value interface{}) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	if data, ok := s.getLocal(key); ok {
		if err := json.Unmarshal(data, value); err == nil {
			return nil
		}
		log.Error().Str("key", key).Msg("Failed to unmarshal locally cached value")
	}

	var lastErr error
	for i := 0; i < RetryAttempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			timeoutCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
			data, err := s.client.Get(timeoutCtx, key).Bytes()
			cancel()

			if err == nil {
				ttl := s.client.TTL(ctx, key).Val()
				if ttl < 0 {
					ttl = ttlForKey(key)
				}
				s.setLocal(key, data, ttl)
				return json.Unmarshal(data, value)
			}

			lastErr = err
			if err == redis.Nil {
				return ErrKeyNotFound
			}

			if i < RetryAttempts-1 {
				time.Sleep(RetryDelay)
			}
		}
	}

	return lastErr
}

// Set stores a value in both Redis and the local layer.
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	if expiration == 0 {
		expiration = ttlForKey(key)
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to marshal value for cache")
		return err
	}

	var lastErr error
	for i := 0; i < RetryAttempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			timeoutCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
			err := s.client.Set(timeoutCtx, key, data, expiration).Err()
			cancel()

			if err == nil {
				s.setLocal(key, data, expiration)
				return nil
			}

			lastErr = err
			if i < RetryAttempts-1 {
				time.Sleep(RetryDelay)
			}
		}
	}

	return lastErr
}

// Delete removes a value from both Redis and the local layer.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	s.mu.RUnlock()

	s.local.Lock()
	delete(s.local.items, key)
	s.local.Unlock()

	var lastErr error
	for i := 0; i < RetryAttempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			timeoutCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
			err := s.client.Del(timeoutCtx, key).Err()
			cancel()

			if err == nil {
				return nil
			}

			lastErr = err
			if i < RetryAttempts-1 {
				time.Sleep(RetryDelay)
			}
		}
	}

	return lastErr
}

func (s *RedisStore) getLocal(key string) ([]byte, bool) {
	s.local.Lock()
	defer s.local.Unlock()

	if item, exists := s.local.items[key]; exists {
		if time.Now().Before(item.expiration) {
			return item.value, true
		}
		delete(s.local.items, key)
	}
	return nil, false
}

func (s *RedisStore) setLocal(key string, value []byte, ttl time.Duration) {
	s.local.Lock()
	defer s.local.Unlock()

	s.local.items[key] = &localCacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
}

func (s *RedisStore) cleanupLoop() {
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

// Close closes the Redis connection and stops the cleanup goroutine.
func (s *RedisStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	s.local.Lock()
	s.local.items = make(map[string]*localCacheItem)
	s.local.Unlock()

	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
