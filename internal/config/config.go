// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the main configuration structure
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr" env:"MEDIADASH__LISTEN_ADDR"`
	StaticDir  string `toml:"static_dir" env:"MEDIADASH__STATIC_DIR"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type  string      `toml:"type" env:"CACHE_TYPE"`
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Host string `toml:"host" env:"REDIS_HOST"`
	Port int    `toml:"port" env:"REDIS_PORT"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Type     string `toml:"type" env:"MEDIADASH__DB_TYPE"`
	Path     string `toml:"path" env:"MEDIADASH__DB_PATH"`
	Host     string `toml:"host" env:"MEDIADASH__DB_HOST"`
	Port     int    `toml:"port" env:"MEDIADASH__DB_PORT"`
	User     string `toml:"user" env:"MEDIADASH__DB_USER"`
	Password string `toml:"password" env:"MEDIADASH__DB_PASSWORD"`
	Name     string `toml:"name" env:"MEDIADASH__DB_NAME"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
			StaticDir:  "static",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "./data/media-dashboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a TOML file. A missing file is not
// an error; defaults plus environment overrides apply instead.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	loadEnvOverrides(config)

	return config, nil
}

// loadEnvOverrides checks for environment variables and overrides config values
func loadEnvOverrides(config *Config) {
	// Server
	if env := os.Getenv("MEDIADASH__LISTEN_ADDR"); env != "" {
		config.Server.ListenAddr = env
	}
	if env := os.Getenv("MEDIADASH__STATIC_DIR"); env != "" {
		config.Server.StaticDir = env
	}

	// Cache
	if env := os.Getenv("CACHE_TYPE"); env != "" {
		config.Cache.Type = env
	}
	if env := os.Getenv("REDIS_HOST"); env != "" {
		config.Cache.Redis.Host = env
	}
	if env := os.Getenv("REDIS_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil {
			config.Cache.Redis.Port = port
		}
	}

	// Database
	if env := os.Getenv("MEDIADASH__DB_TYPE"); env != "" {
		config.Database.Type = env
	}
	if env := os.Getenv("MEDIADASH__DB_PATH"); env != "" {
		config.Database.Path = env
	}
	if env := os.Getenv("MEDIADASH__DB_HOST"); env != "" {
		config.Database.Host = env
	}
	if env := os.Getenv("MEDIADASH__DB_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil {
			config.Database.Port = port
		}
	}
	if env := os.Getenv("MEDIADASH__DB_USER"); env != "" {
		config.Database.User = env
	}
	if env := os.Getenv("MEDIADASH__DB_PASSWORD"); env != "" {
		config.Database.Password = env
	}
	if env := os.Getenv("MEDIADASH__DB_NAME"); env != "" {
		config.Database.Name = env
	}

	// Log
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		config.Log.Level = env
	}
}
