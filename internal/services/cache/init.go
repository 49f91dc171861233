// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	CacheTypeRedis  CacheType = "redis"
	CacheTypeMemory CacheType = "memory"
)

func redisAddr() string {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", host, port)
}

// getCacheType determines which cache implementation to use based on environment
func getCacheType() CacheType {
	cacheType := os.Getenv("CACHE_TYPE")
	if cacheType == "" {
		// Default to memory cache if Redis host is not set
		if os.Getenv("REDIS_HOST") == "" {
			return CacheTypeMemory
		}
		return CacheTypeRedis
	}

	switch strings.ToLower(cacheType) {
	case "redis":
		return CacheTypeRedis
	case "memory":
		return CacheTypeMemory
	default:
		log.Warn().Str("type", cacheType).Msg("Unknown cache type specified, defaulting to memory cache")
		return CacheTypeMemory
	}
}

// InitCache initializes a cache instance based on environment configuration.
// When Redis is requested but unreachable it falls back to the memory store
// and reports the connection error alongside the usable store.
func InitCache() (Store, error) {
	cacheType := getCacheType()

	log.Debug().Str("type", string(cacheType)).Msg("Initializing cache")

	switch cacheType {
	case CacheTypeRedis:
		store, err := NewRedisStore(redisAddr())
		if err != nil {
			log.Warn().Err(err).Str("addr", redisAddr()).Msg("Redis connection failed, falling back to memory cache")
			return NewMemoryStore(), err
		}
		return store, nil

	default:
		return NewMemoryStore(), nil
	}
}
