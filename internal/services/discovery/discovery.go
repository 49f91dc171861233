package discovery

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

// Backend is one discovered backend endpoint.
type Backend struct {
	Type     string `json:"type" yaml:"type"`
	URL      string `json:"url" yaml:"url"`
	APIKey   string `json:"apikey,omitempty" yaml:"apikey,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// BackendDiscoverer defines the interface for backend discovery implementations
type BackendDiscoverer interface {
	// DiscoverBackends finds and returns backend endpoints
	DiscoverBackends(ctx context.Context) ([]Backend, error)
	// Close cleans up any resources used by the discoverer
	Close() error
}

// Manager handles multiple backend discovery methods
type Manager struct {
	discoverers []BackendDiscoverer
}

// NewManager creates a new discovery manager
func NewManager() (*Manager, error) {
	var discoverers []BackendDiscoverer

	// Try to initialize Docker discovery
	if docker, err := NewDockerDiscovery(); err == nil {
		discoverers = append(discoverers, docker)
	}

	// Try to initialize Kubernetes discovery
	if k8s, err := NewKubernetesDiscovery(); err == nil {
		discoverers = append(discoverers, k8s)
	}

	if len(discoverers) == 0 {
		return nil, fmt.Errorf("no backend discovery methods available")
	}

	return &Manager{
		discoverers: discoverers,
	}, nil
}

// DiscoverAll finds backends using all available discovery methods
func (m *Manager) DiscoverAll(ctx context.Context) ([]Backend, error) {
	var allBackends []Backend

	for _, discoverer := range m.discoverers {
		backends, err := discoverer.DiscoverBackends(ctx)
		if err != nil {
			// Continue with the other discoverers
			log.Warn().Err(err).Msg("Backend discovery error")
			continue
		}
		allBackends = append(allBackends, backends...)
	}

	return allBackends, nil
}

// Close cleans up all discoverers
func (m *Manager) Close() error {
	var lastErr error
	for _, discoverer := range m.discoverers {
		if err := discoverer.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Validate checks whether a discovered backend is usable.
func Validate(backend Backend) error {
	if backend.Type == "" {
		return fmt.Errorf("backend type is required")
	}
	if backend.URL == "" {
		return fmt.Errorf("URL is required")
	}
	if _, _, known := (models.DashboardConfig{}).Backend(backend.Type); !known {
		return fmt.Errorf("unknown backend type %q", backend.Type)
	}
	return nil
}

// Apply writes discovered backends into the dashboard configuration. Later
// entries win when two discoveries claim the same backend.
func Apply(config *models.DashboardConfig, backends []Backend) {
	for _, backend := range backends {
		switch backend.Type {
		case "sonarr":
			config.SonarrURL = backend.URL
			config.SonarrKey = backend.APIKey
		case "radarr":
			config.RadarrURL = backend.URL
			config.RadarrKey = backend.APIKey
		case "jackett":
			config.JackettURL = backend.URL
			config.JackettKey = backend.APIKey
		case "transmission":
			config.TransmissionURL = backend.URL
			config.TransmissionUser = backend.Username
			config.TransmissionPass = backend.Password
		case "plex":
			config.PlexURL = backend.URL
			config.PlexToken = backend.APIKey
		case "jellyfin":
			config.JellyfinURL = backend.URL
			config.JellyfinKey = backend.APIKey
		case "emby":
			config.EmbyURL = backend.URL
			config.EmbyKey = backend.APIKey
		}
	}
}
