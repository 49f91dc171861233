// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/api/middleware"
	"github.com/aragorn2909/media-dashboard/internal/api/routes"
	"github.com/aragorn2909/media-dashboard/internal/commands"
	"github.com/aragorn2909/media-dashboard/internal/config"
	"github.com/aragorn2909/media-dashboard/internal/database"
	"github.com/aragorn2909/media-dashboard/internal/logger"
	_ "github.com/aragorn2909/media-dashboard/internal/services"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

func init() {
	logger.Init()
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "run" {
		if err := commands.Execute(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	startServer()
}

func startServer() {
	log.Info().
		Str("version", commands.Version).
		Str("commit", commands.Commit).
		Str("build_date", commands.Date).
		Msg("Starting media-dashboard")

	configPath := flag.String("config", "config.toml", "path to config file")
	dbPath := flag.String("db", "", "path to database file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.SetLevel(cfg.Log.Level)

	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	} else if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(filepath.Dir(*configPath), "data", "media-dashboard.db")
	}

	db, err := database.InitDB(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	store, err := settings.NewStore(context.Background(), db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dashboard settings")
	}

	if os.Getenv("GIN_MODE") == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	if gin.Mode() == gin.DebugMode {
		err = r.SetTrustedProxies(nil)
	} else {
		err = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to set trusted proxies")
	}

	r.Use(middleware.SetupCORS())

	cacheStore := routes.SetupRoutes(r, db, store)
	defer func() {
		if err := cacheStore.Close(); err != nil {
			cacheType := strings.ToLower(os.Getenv("CACHE_TYPE"))
			if cacheType == "redis" {
				log.Error().Err(err).Msg("Failed to close Redis cache connection")
			} else {
				log.Debug().Err(err).Msg("Cache cleanup completed")
			}
		}
	}()

	serveStatic(r, cfg.Server.StaticDir)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("address", cfg.Server.ListenAddr).
			Str("mode", gin.Mode()).
			Str("database", cfg.Database.Path).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// serveStatic serves the frontend build with an index.html fallback so
// client-side routes deep-link correctly. Without a build directory the API
// still runs on its own.
func serveStatic(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.Warn().Str("dir", dir).Msg("Static directory not found, serving API only")
		return
	}

	r.Static("/assets", filepath.Join(dir, "assets"))
	r.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))

	index := filepath.Join(dir, "index.html")
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	})
}
