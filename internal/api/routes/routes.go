// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/api/handlers"
	"github.com/aragorn2909/media-dashboard/internal/api/middleware"
	"github.com/aragorn2909/media-dashboard/internal/database"
	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/aggregator"
	"github.com/aragorn2909/media-dashboard/internal/services/cache"
	"github.com/aragorn2909/media-dashboard/internal/settings"
)

// SetupRoutes configures all the routes for the application and returns the
// cache instance for cleanup.
func SetupRoutes(r *gin.Engine, db *database.DB, store *settings.Store) cache.Store {
	cacheStore, err := cache.InitCache()
	if err != nil {
		log.Warn().Err(err).Msg("Preferred cache unavailable, continuing with fallback")
	}

	agg := aggregator.New(models.NewAdapterRegistry())

	statusHandler := handlers.NewStatusHandler(store, agg)
	configHandler := handlers.NewConfigHandler(store, db)
	authHandler := handlers.NewAuthHandler(db, cacheStore)
	sonarrHandler := handlers.NewSonarrHandler(store, db)
	radarrHandler := handlers.NewRadarrHandler(store, db)
	jackettHandler := handlers.NewJackettHandler(store)
	plexHandler := handlers.NewPlexHandler(store)
	transmissionHandler := handlers.NewTransmissionHandler(store, db)
	libraryHandler := handlers.NewLibraryHandler(store)
	settingsHandler := handlers.NewSettingsHandler(store)
	discoverHandler := handlers.NewDiscoverHandler()

	authMiddleware := middleware.NewAuthMiddleware(cacheStore)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth endpoints stay public
	r.POST("/api/login", authHandler.Login)
	r.POST("/api/logout", authHandler.Logout)

	api := r.Group("/api")

	// Auth is only enforced once an account exists; a fresh install stays
	// open until "run user create" is used.
	hasUsers, err := db.HasUsers(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("Failed to check for users, enforcing auth")
		hasUsers = true
	}
	if hasUsers {
		api.Use(authMiddleware.RequireAuth())
	} else {
		log.Warn().Msg("No users configured, API authentication is disabled")
	}

	{
		api.GET("/status", statusHandler.GetStatus)

		api.GET("/config", configHandler.GetConfig)
		api.POST("/config", configHandler.UpdateConfig)
		api.GET("/logs/audit", configHandler.GetAuditLogs)

		api.GET("/search", libraryHandler.Search)
		api.GET("/calendar", libraryHandler.Calendar)
		api.GET("/stats", libraryHandler.Stats)

		api.GET("/settings/:service", settingsHandler.GetSettings)
		api.POST("/settings/:service", settingsHandler.UpdateSettings)

		api.GET("/discover", discoverHandler.Discover)

		sonarrGroup := api.Group("/sonarr")
		{
			sonarrGroup.GET("/series", sonarrHandler.GetSeries)
			sonarrGroup.GET("/series/search", sonarrHandler.SearchSeries)
			sonarrGroup.POST("/series", sonarrHandler.AddSeries)
			sonarrGroup.DELETE("/series/:id", sonarrHandler.DeleteSeries)
			sonarrGroup.GET("/calendar", sonarrHandler.GetCalendar)
			sonarrGroup.GET("/rootfolders", sonarrHandler.GetRootFolders)
			sonarrGroup.GET("/qualityprofiles", sonarrHandler.GetQualityProfiles)
		}

		radarrGroup := api.Group("/radarr")
		{
			radarrGroup.GET("/movies", radarrHandler.GetMovies)
			radarrGroup.GET("/movies/search", radarrHandler.SearchMovies)
			radarrGroup.POST("/movies", radarrHandler.AddMovie)
			radarrGroup.DELETE("/movies/:id", radarrHandler.DeleteMovie)
			radarrGroup.GET("/calendar", radarrHandler.GetCalendar)
			radarrGroup.GET("/rootfolders", radarrHandler.GetRootFolders)
			radarrGroup.GET("/qualityprofiles", radarrHandler.GetQualityProfiles)
		}

		api.GET("/jackett/indexers", jackettHandler.GetIndexers)

		plexGroup := api.Group("/plex")
		{
			plexGroup.GET("/server-info", plexHandler.GetServerInfo)
			plexGroup.GET("/libraries", plexHandler.GetLibraries)
			plexGroup.GET("/recently-added", plexHandler.GetRecentlyAdded)
		}

		transmissionGroup := api.Group("/transmission")
		{
			transmissionGroup.GET("/torrents", transmissionHandler.GetTorrents)
			transmissionGroup.POST("/torrents", transmissionHandler.AddTorrent)
			transmissionGroup.POST("/torrents/:id/start", transmissionHandler.StartTorrent)
			transmissionGroup.POST("/torrents/:id/stop", transmissionHandler.StopTorrent)
			transmissionGroup.DELETE("/torrents/:id", transmissionHandler.RemoveTorrent)
		}
	}

	return cacheStore
}
