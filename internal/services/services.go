// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package services

import (
	// Import all backends to register their adapters.

	_ "github.com/aragorn2909/media-dashboard/internal/services/emby"
	_ "github.com/aragorn2909/media-dashboard/internal/services/jackett"
	_ "github.com/aragorn2909/media-dashboard/internal/services/jellyfin"
	_ "github.com/aragorn2909/media-dashboard/internal/services/plex"
	_ "github.com/aragorn2909/media-dashboard/internal/services/radarr"
	_ "github.com/aragorn2909/media-dashboard/internal/services/sonarr"
	_ "github.com/aragorn2909/media-dashboard/internal/services/transmission"
)
